// Package shutdown coordinates graceful process termination.
//
// A Handler waits for SIGINT, SIGTERM, an explicit Trigger call or the
// cancellation of a parent context, then runs the registered hooks in
// reverse registration order under a shared deadline:
//
//	h := shutdown.NewHandler(10*time.Second, log)
//	h.OnShutdown("redis", srv.Shutdown)
//	h.OnShutdown("http", httpSrv.Shutdown)
//	err := h.Wait(ctx)
package shutdown
