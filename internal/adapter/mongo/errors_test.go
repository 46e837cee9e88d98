package mongo

import (
	"errors"
	"testing"

	"github.com/Abdurahmanit/GroupProject/content-service/internal/port/repository"
	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/mongo"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		in   error
		want error
	}{
		{"no documents", mongo.ErrNoDocuments, repository.ErrNotFound},
		{"unauthorized", mongo.CommandError{Code: codeUnauthorized, Message: "not authorized"}, repository.ErrPermissionDenied},
		{"atlas unauthorized", mongo.CommandError{Code: codeAtlasUnauthorized, Message: "user is not allowed"}, repository.ErrPermissionDenied},
		{"auth failed", mongo.CommandError{Code: codeAuthenticationFailed, Message: "auth failed"}, repository.ErrUnauthenticated},
		{"duplicate", mongo.WriteException{WriteErrors: mongo.WriteErrors{{Code: 11000, Message: "E11000"}}}, repository.ErrDuplicate},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := classify(tt.in)
			assert.ErrorIs(t, got, tt.want)
		})
	}

	t.Run("transient passes through", func(t *testing.T) {
		err := errors.New("connection reset")
		assert.Same(t, err, classify(err))
	})

	t.Run("nil", func(t *testing.T) {
		assert.NoError(t, classify(nil))
	})

	t.Run("permanent classes", func(t *testing.T) {
		assert.True(t, repository.IsPermanent(classify(mongo.CommandError{Code: codeUnauthorized})))
		assert.False(t, repository.IsPermanent(classify(errors.New("timeout"))))
	})
}
