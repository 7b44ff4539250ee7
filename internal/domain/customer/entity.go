package customer

import (
	"github.com/google/uuid"

	"bookstore-backoffice/internal/pkg/errs"
)

var ErrCustomerNotFound = errs.Mark(errs.New("customer not found"), errs.ErrNotFound)

type Customer struct {
	id    uuid.UUID
	name  string
	email *string
}

func ReconstructCustomer(id uuid.UUID, name string, email *string) *Customer {
	return &Customer{id: id, name: name, email: email}
}

func (c *Customer) ID() uuid.UUID  { return c.id }
func (c *Customer) Name() string   { return c.name }
func (c *Customer) Email() *string { return c.email }
