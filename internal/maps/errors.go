package maps

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrMissingEndpoint     = errors.New("origin and destination are required")
	ErrTimeout             = errors.New("provider call timed out")
	ErrProviderUnavailable = errors.New("maps provider not configured")
	ErrNoRoute             = errors.New("no route returned")
	ErrNoAddress           = errors.New("no address for coordinates")
)

// Provider status codes as returned by the Google web services.
const (
	StatusZeroResults     = "ZERO_RESULTS"
	StatusNotFound        = "NOT_FOUND"
	StatusRequestDenied   = "REQUEST_DENIED"
	StatusOverQueryLimit  = "OVER_QUERY_LIMIT"
	StatusInvalidRequest  = "INVALID_REQUEST"
	StatusUnknownError    = "UNKNOWN_ERROR"
	StatusAPINotActivated = "API_NOT_ACTIVATED"
)

var statusMessages = map[string]string{
	StatusZeroResults:     "Nenhuma rota encontrada entre origem e destino",
	StatusNotFound:        "Origem ou destino não encontrados",
	StatusRequestDenied:   "Requisição negada. Verifique a chave da API",
	StatusOverQueryLimit:  "Limite de consultas excedido",
	StatusInvalidRequest:  "Requisição inválida. Verifique os endereços",
	StatusUnknownError:    "Erro desconhecido. Tente novamente",
	StatusAPINotActivated: "A API do Google Maps Directions não está ativada. Ative-a no Google Cloud Console.",
}

// StatusError is a non-OK provider status.
type StatusError struct {
	Status string
	Err    error
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("maps status %s: %v", e.Status, e.Err)
}

func (e *StatusError) Unwrap() error { return e.Err }

// UserMessage translates the status for the notification shown to the user.
func (e *StatusError) UserMessage() string {
	return StatusMessage(e.Status)
}

// StatusMessage maps a provider status to its pt-BR message.
func StatusMessage(status string) string {
	if msg, ok := statusMessages[status]; ok {
		return msg
	}
	return "Erro: " + status
}

// EndpointNotFoundError reports an origin or destination the geocoder could not resolve.
type EndpointNotFoundError struct {
	Endpoint string
	Status   string
}

func (e *EndpointNotFoundError) Error() string {
	return fmt.Sprintf("Não foi possível encontrar: %s. Status: %s", e.Endpoint, e.Status)
}

// statusFromError extracts the provider status from a client error.
// The client formats them as "maps: STATUS - message".
func statusFromError(err error) (string, bool) {
	msg := err.Error()
	lower := strings.ToLower(msg)
	if strings.Contains(msg, "ApiNotActivated") || strings.Contains(lower, "api-not-activated") ||
		strings.Contains(lower, "not activated") {
		return StatusAPINotActivated, true
	}
	rest, ok := strings.CutPrefix(msg, "maps: ")
	if !ok {
		return "", false
	}
	status, _, _ := strings.Cut(rest, " - ")
	status = strings.TrimSpace(status)
	if status == "" || strings.ToUpper(status) != status || strings.Contains(status, " ") {
		return "", false
	}
	return status, true
}

// classify wraps a raw client error into a StatusError when it carries a provider status.
func classify(err error) error {
	if status, ok := statusFromError(err); ok {
		return &StatusError{Status: status, Err: err}
	}
	return err
}
