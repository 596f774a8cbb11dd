package domain

// DateFormat is the canonical calendar-date layout used in persisted records
const DateFormat = "2006-01-02"

// MaxBatchQuantity bounds a single add/remove operation
const MaxBatchQuantity = 10000
