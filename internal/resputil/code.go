package resputil

type ErrorCode int

const (
	OK ErrorCode = 0

	// General
	InvalidRequest ErrorCode = 40001

	// Referenced entity absent or soft-deleted
	NotFound ErrorCode = 40401

	// Relational store failure. The raw error is logged, never echoed.
	StoreError ErrorCode = 50001

	// Indicates laziness of the developer
	NotSpecified ErrorCode = 99999
)
