package fieldtext

// Service exposes the package heuristics behind the FieldExtractor port.
type Service struct{}

func NewService() Service { return Service{} }

func (Service) Extract(text, key string, altKeys ...string) (string, bool) {
	return Extract(text, key, altKeys...)
}

func (Service) ProductName(text string) (string, bool) {
	return ProductName(text)
}

func (Service) Description(text string) (string, bool) {
	return Description(text)
}
