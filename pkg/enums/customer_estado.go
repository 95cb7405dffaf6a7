package enums

import (
	"fmt"
	"strings"
)

// CustomerEstado mirrors the customers.estado column.
type CustomerEstado string

const (
	CustomerEstadoActive   CustomerEstado = "active"
	CustomerEstadoInactive CustomerEstado = "inactive"
)

func (e CustomerEstado) String() string {
	return string(e)
}

// IsValid reports whether the value is a known CustomerEstado.
func (e CustomerEstado) IsValid() bool {
	return e == CustomerEstadoActive || e == CustomerEstadoInactive
}

// ParseCustomerEstado converts raw input into a CustomerEstado.
func ParseCustomerEstado(value string) (CustomerEstado, error) {
	estado := CustomerEstado(strings.ToLower(strings.TrimSpace(value)))
	if !estado.IsValid() {
		return "", fmt.Errorf("invalid customer estado %q", value)
	}
	return estado, nil
}
