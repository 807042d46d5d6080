/*
Package pipeline runs a fixed list of text I/O steps strictly in order.

	+-----------+     +-----------+     +-----------+     +-----------+
	|   print   | --> |print_lines| --> |  append   | --> |   fetch   |
	+-----------+     +-----------+     +-----------+     +-----------+

Each step opens what it needs and closes it before returning, on success and
on failure. Steps never overlap: the runner waits for one to return before
starting the next.

By default the first failing step ends the run and later steps are reported
as skipped. WithContinueOnError(true) runs every step and joins the failures.

🔍 Example:

	steps, err := pipeline.Build(config.Default(), os.Stdout)
	if err != nil {
		return err
	}
	results, err := pipeline.NewRunner().Run(ctx, steps)
*/
package pipeline
