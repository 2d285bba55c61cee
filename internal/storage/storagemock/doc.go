// Package storagemock contains the mocks of the storage package.
package storagemock

//go:generate mockery --case underscore --output . --outpkg storagemock --name HistoryRepository --srcpkg github.com/slok/opsim/internal/storage --structname MockHistoryRepository --filename mocks.go
