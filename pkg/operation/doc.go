/*
Package operation turns paths into morphed outputs.

	+----------------+
	|  dirOperation  |  walk source + target roots, union, sort
	+-------+--------+
	        |  one per relative path
	+-------+--------+
	| tripleOperation|  read inputs, morph, write / remove / skip
	+-------+--------+
	        |
	+-------+--------+
	| status.Manager |  atomic writes, tracking
	+----------------+

🎯 Purpose:
- Reads the three inputs of a triple, honouring auto mode
- Runs morph.Morph and hands the output to the status manager
- Removes the output when the target disappeared under auto mode
- Walks directory roots and runs one triple per file

🔄 Per triple:
1. target absent (auto): remove the output if it exists, else nothing to do
2. ignore set and source == target: skip
3. patch absent (auto): use the source, blanked
4. morph, then write the output, creating parent directories

⚡ Batches:
OperationRunner runs triples one after the other by default. With more than one job it uses an
errgroup with a concurrency limit. Either way the first failure stops the batch and is returned.

🔍 Example:

	opts := operation.Options{Morph: cfg.MorphOptions(), Auto: cfg.Auto, StatusMgr: mgr}
	op := operation.NewDirOperation(opts, operation.Triple{
		Source: "src", Target: "tgt", Patch: "patch", Out: "out",
	}, cfg.Exclude, cfg.Jobs)
	err := op.Execute(ctx)
*/
package operation
