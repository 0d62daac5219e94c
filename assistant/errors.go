package assistant

import (
	"errors"

	"github.com/fulldump/listassistant/changeset"
)

var (
	ErrNotFound               = errors.New("not found")
	ErrEpisodeConflict        = changeset.ErrEpisodeConflict
	ErrPolicyMisconfiguration = errors.New("policy changed after fetch, fetch again")
	ErrConsumerRejection      = changeset.ErrConsumerRejection
	ErrInconsistentBatch      = changeset.ErrInconsistentBatch
	ErrKeyChanged             = errors.New("mutation changed the entity key")
	ErrNoMorePages            = errors.New("no more pages")
	ErrPageSize               = errors.New("page size can only be set before the first fetch")
)
