// Package worker consumes questions from a Redis stream and publishes
// answers.
//
// Each stream entry carries a JSON QueryRequest in its "data" field. The
// worker dispatches the query and appends the response envelope to the
// result stream. Malformed entries are reported on "<result stream>.errors".
// Every entry is acknowledged exactly once.
//
// Example usage:
//
//	cfg, _ := config.Load()
//	redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
//	svc, _ := app.Build(ctx, cfg, logger)
//
//	w := worker.NewWorker(cfg, redisClient, svc.Dispatcher, logger)
//	if err := w.Start(); err != nil {
//	    log.Fatal(err)
//	}
//	defer w.Stop()
//
// Health checks are provided via a separate HTTP server. /ready also reports
// the corpus section and concept card counts:
//
//	healthServer := worker.NewHealthServer(8082, redisClient, svc.Retriever, svc.Concepts, logger)
//	healthServer.Start()
//	defer healthServer.Stop()
package worker
