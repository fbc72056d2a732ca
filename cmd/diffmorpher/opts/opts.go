package opts

// RootOpts contains what subcommands share with the root command
type RootOpts struct {
	// Version renders the version block.
	Version func() string
}
