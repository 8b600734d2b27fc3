package gormstorage_test

import (
	"github.com/openfootball/matchsim/internal/storage"
	gormstorage "github.com/openfootball/matchsim/internal/storage/gorm"
)

// Compile-time interface check. Lives in an external package because the
// storage factory imports this backend.
var _ storage.Backend = (*gormstorage.Backend)(nil)
