// Package bootstrap brings the process from cold start to serving.
//
// Usage:
//
//	app := bootstrap.New(cfg, database, log)
//	if err := app.Start(ctx); err != nil {
//	    log.Error("%v", err)
//	    os.Exit(1)
//	}
//
// Start kicks off the database connect attempt and binds the listener
// without waiting on it. A failed connect is only logged.
package bootstrap
