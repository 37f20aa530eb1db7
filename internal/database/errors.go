package database

import "errors"

var (
	// ErrNotFound возвращается, когда запрошенная запись отсутствует.
	ErrNotFound = errors.New("record not found")
	// ErrInvalidStatus возвращается при неизвестном статусе заявки.
	ErrInvalidStatus = errors.New("invalid request status")
	// ErrInvalidTransition возвращается, когда переход статуса запрещён.
	ErrInvalidTransition = errors.New("invalid status transition")
	// ErrEmailTaken возвращается при регистрации с занятым email.
	ErrEmailTaken = errors.New("email already registered")
	// ErrSlugTaken возвращается при конфликте slug события.
	ErrSlugTaken = errors.New("event slug already exists")
)
