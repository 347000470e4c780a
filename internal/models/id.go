package models

import (
	nanoid "github.com/jaevor/go-nanoid"
)

// IDLength длина идентификаторов в хранилище (чаты, пользователи, сообщения)
const IDLength = 24

const idAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

var newID = mustGenerator()

func mustGenerator() func() string {
	gen, err := nanoid.CustomASCII(idAlphabet, IDLength)
	if err != nil {
		panic(err)
	}
	return gen
}

// NewID возвращает новый 24-символьный идентификатор
func NewID() string {
	return newID()
}
