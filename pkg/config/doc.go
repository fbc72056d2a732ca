/*
Package config resolves the settings of one diffmorpher invocation.

	+----------+   +---------+   +-----------+   +-------+
	| defaults | < | file    | < | env / .env | < | flags |
	+----------+   +----+----+   +-----------+   +-------+
	                    |
	      +-------------+-------------+
	      |             |             |
	+-----+-----+ +-----+-----+ +-----+-----+
	|   YAML    | |    HCL    | |   JSON    |
	|  Parser   | |  Parser   | |  Parser   |
	+-----------+ +-----------+ +-----------+

🎯 Purpose:
- Loads an optional config file, picking the parser by extension
- Applies DIFFMORPHER_* environment overrides, optionally from a .env file
- Validates option values and the four paths

Every parser decodes on top of Default(), so keys missing from the file keep their defaults.
Unknown keys are rejected by all three formats. Validation errors wrap morph.ErrArgument.

🔍 Example:

	cfg, err := config.Load(ctx, "diffmorpher.yaml")
	if err != nil {
		return err
	}
	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
*/
package config
