package odm

import (
	"errors"

	"go.mongodb.org/mongo-driver/mongo"
)

var (
	ErrNotFound        = errors.New("odm: document not found")
	ErrNotRegistered   = errors.New("odm: model is not registered")
	ErrNoID            = errors.New("odm: document has no id")
	ErrInvalidDocument = errors.New("odm: invalid document")
	ErrInvalidUpdate   = errors.New("odm: invalid update")
)

func convertError(err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return ErrNotFound
	}
	return err
}
