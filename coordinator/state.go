package coordinator

import "github.com/rs/zerolog"

// opState tracks how far a mutation got through its pipeline. Aborted is
// only reachable before persistence; after that the operation is committed
// and tail failures merely degrade it.
type opState int

const (
	stateReceived opState = iota
	stateNormalized
	statePersisted
	stateProjected
	statePublished
	stateDone
	stateAborted
)

func (s opState) String() string {
	switch s {
	case stateReceived:
		return "received"
	case stateNormalized:
		return "normalized"
	case statePersisted:
		return "persisted"
	case stateProjected:
		return "projected"
	case statePublished:
		return "published"
	case stateDone:
		return "done"
	case stateAborted:
		return "aborted"
	}
	return "unknown"
}

type op struct {
	name  string
	state opState
	log   zerolog.Logger
}

func (o *op) advance(s opState) {
	o.state = s
	o.log.Debug().Str("op", o.name).Stringer("state", s).Msg("pipeline")
}

func (o *op) abort(err error) error {
	o.state = stateAborted
	o.log.Debug().Str("op", o.name).Err(err).Msg("pipeline aborted")
	return err
}
