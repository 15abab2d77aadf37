package dynaroute

// Envelope is the normalized inbound request: the name of the operation to
// run and its raw argument bag, independent of the transport encoding.
type Envelope struct {
	Operation string
	Arguments Arguments
	Identity  *Identity
}

// Identity is the caller identity forwarded by the entrypoint, if any.
type Identity struct {
	Username string
	Claims   map[string]any
}

// Arguments is the argument bag of an Envelope.
type Arguments map[string]any

// String returns the named argument if it holds a string.
func (a Arguments) String(key string) string {
	s, _ := a[key].(string)
	return s
}

// Record returns the named argument as a Record, or nil if it is absent or
// not an object.
func (a Arguments) Record(key string) Record {
	switch v := a[key].(type) {
	case Record:
		return v
	case map[string]any:
		return Record(v)
	}
	return nil
}

// NormalizedArguments is the domain-independent view of an argument bag.
type NormalizedArguments struct {
	ID           string // <resource>Id
	SecondaryKey string // the domain's secondary attribute
	Record       Record // <resource>
}

// Normalize extracts the arguments domain operations read.
func (a Arguments) Normalize(d Domain) NormalizedArguments {
	return NormalizedArguments{
		ID:           a.String(d.IDArgument()),
		SecondaryKey: a.String(d.SecondaryArgument()),
		Record:       a.Record(d.RecordArgument()),
	}
}
