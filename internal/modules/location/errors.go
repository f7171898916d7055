package location

import "errors"

var (
	ErrInvalidCoordinates = errors.New("coordinates out of range")
	ErrMissingSession     = errors.New("missing session")
)

// PositionError is a geolocation failure reported by the device or detected here.
type PositionError struct {
	Code ErrorCode
}

func (e *PositionError) Error() string {
	return "Erro na geolocalização: " + e.reason()
}

func (e *PositionError) reason() string {
	switch e.Code {
	case CodePermissionDenied:
		return "Permissão negada pelo usuário."
	case CodePositionUnavailable:
		return "Localização indisponível."
	case CodeTimeout:
		return "Tempo limite excedido."
	default:
		return "Erro desconhecido."
	}
}
