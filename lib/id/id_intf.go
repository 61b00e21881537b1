package id

// Gen generates the number uuid.
type Gen func() uint64

type UUIDGen interface {
	Number() uint64
	Str() string
}

var (
	_ UUIDGen = (*uuidDelegator)(nil)
)

type uuidDelegator struct {
	number Gen
	str    func() string
}

func (id *uuidDelegator) Number() uint64 { return id.number() }
func (id *uuidDelegator) Str() string    { return id.str() }

type NanoIDGen func() string

// Generator is the constructor-facing name for UUIDGen; MonotonicNonZeroID
// returns one of these.
type Generator = UUIDGen

var (
	_ Generator = (*defaultID)(nil)
)

// defaultID is the same shape as uuidDelegator; MonotonicNonZeroID builds
// one of these rather than a uuidDelegator so its zero value reads clearly
// at the call site.
type defaultID struct {
	number Gen
	str    func() string
}

func (id *defaultID) Number() uint64 { return id.number() }
func (id *defaultID) Str() string    { return id.str() }
