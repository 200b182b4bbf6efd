// Package persistence provides query stores over the job records of an external queue.
// SQLStore reads a delayed_job style table through sqlx (SQLite or Postgres) and MongoStore
// reads the equivalent document collection. Both translate jobs.Predicate into their native
// query form, order by created_at descending and break ties by insertion order.
package persistence
