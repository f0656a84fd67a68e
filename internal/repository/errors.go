package repository

import "errors"

var (
	ErrNotFound = errors.New("not found")
	// ErrStaleStatus - строку уже перевёл другой обработчик
	ErrStaleStatus = errors.New("status changed concurrently")
)
