/*
Package status owns the output side of diffmorpher: writing, removing and tracking output files.

	+-----------+      +-------------+      +-----------+
	| operation | ---> |   Manager   | ---> |  outputs  |
	+-----------+      | (FileManager|      +-----------+
	                   |  + Reporter)|
	                   +------+------+
	                          |
	                   +------+------+
	                   |  Formatter  |
	                   +-------------+

🎯 Purpose:
- Writes outputs atomically (temp file + rename)
- Creates missing parent directories
- Removes outputs whose target disappeared
- Tracks one FileInfo per output and the batch progress

📊 Statuses:
- new, modified, unchanged: output written
- deleted: target absent under auto mode, output removed
- skipped: target absent and nothing to remove
- ignored: source and target identical
- copied: binary or empty source, target copied verbatim
- failed: the triple could not be processed

Write errors wrap morph.ErrWriteFailure and carry the path as a detail.

🔍 Example:

	mgr := status.New(outDir, zerolog.Ctx(ctx))

	st, err := mgr.WriteFile(ctx, "nested/file.txt", content)
	if err != nil {
		return err
	}
	mgr.TrackFile(ctx, status.FileInfo{Path: "nested/file.txt", Status: st})
*/
package status
