// Package mutuals runs the whole extraction: it reads timeline files,
// keeps the users that follow and are followed back, and downloads their
// profile pictures into the output folder.
//
// Files are read one after another and their mutuals accumulate in file
// then entry order with no deduplication. A username seen twice is
// downloaded twice and the later write wins. Downloads then run on a
// bounded worker pool.
//
// Progress is reported through a Reporter so the console printer and the
// interactive view share one code path:
//
//	runner := mutuals.NewFromConfig(cfg, ui.NewConsole(os.Stdout))
//	summary, err := runner.Run(ctx, []string{"followers.json", "following.json"})
package mutuals
