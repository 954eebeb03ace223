// Package jobs provides scheduled background tasks for the order lifecycle.
//
// Jobs are cron based (github.com/robfig/cron/v3, six field expressions with
// seconds).
//
// # Available Jobs
//
// ReevaluationJob runs ReevaluateOrdersCommand on a schedule so that
// auto-confirmation, lateness and auto-reassignment happen without a caller.
//
// OutboxRelayJob runs RelayOutboxCommand every few seconds and pushes the events
// staged by the write use cases to Kafka.
//
// # Usage
//
//	job := jobs.NewReevaluationJob(reevaluateHandler, "0 * * * * *", logger)
//	relay := jobs.NewOutboxRelayJob(relayHandler, "", 0, logger)
//	jobManager := jobs.NewJobManager(job, relay)
//
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//	defer jobManager.StopAll()
//
// # Error Handling
//
// A pass never stops the scheduler. Failures, including per-order failures joined
// by the handler, are logged and the next pass retries.
package jobs
