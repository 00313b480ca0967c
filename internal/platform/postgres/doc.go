// Package postgres provides PostgreSQL-backed implementations of the store
// interfaces. All implementations run on database/sql with the pgx driver
// and map driver-level errors onto the store package's sentinel errors.
package postgres
