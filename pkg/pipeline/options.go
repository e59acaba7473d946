package pipeline

// SerializerOption configures a Serializer.
type SerializerOption func(s *Serializer)

// WithoutRegistration makes the serializer fail on definitions that carry no entity id instead
// of registering them.
func WithoutRegistration() SerializerOption {
	return func(s *Serializer) {
		s.register = false
	}
}

// SubmitOption configures a single submission.
type SubmitOption func(o *submitOptions)

type submitOptions struct {
	description string
}

// WithDescription sets the run description.
func WithDescription(description string) SubmitOption {
	return func(o *submitOptions) {
		o.description = description
	}
}
