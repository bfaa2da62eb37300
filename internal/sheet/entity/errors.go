package entity

import "errors"

// ErrInvalidFileType is returned when the upload is not a CSV file.
var ErrInvalidFileType = errors.New("invalid file type")

// ErrEmptyFile is returned when the upload contains zero bytes.
var ErrEmptyFile = errors.New("empty file")

// ErrFileTooLarge is returned as soon as the upload exceeds the size ceiling.
var ErrFileTooLarge = errors.New("file too large")

// ErrMalformedCSV is returned when the payload cannot be parsed as CSV.
var ErrMalformedCSV = errors.New("malformed csv")

// ErrNoDataRows is returned when the table has a header but no data rows.
var ErrNoDataRows = errors.New("no data rows")

// ErrCellLimitExceeded is returned when rows x columns is above the cell limit.
var ErrCellLimitExceeded = errors.New("cell limit exceeded")

// ErrProvisioning is returned when the spreadsheet cannot be created or shared.
var ErrProvisioning = errors.New("provisioning failed")

// ErrTransient marks a remote write failure that is worth retrying.
var ErrTransient = errors.New("transient remote failure")

// ErrQueueClosed is returned when a job is submitted after shutdown began.
var ErrQueueClosed = errors.New("upload queue is closed")

// ErrQueueFull is returned when no worker slot is free to accept another job.
var ErrQueueFull = errors.New("upload queue is full")
