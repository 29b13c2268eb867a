package client

import (
	"context"
	"fmt"

	"cattus/internal/domain/shelter"
	"cattus/internal/domain/user"
)

type Employees struct {
	api *API
}

func (a *API) Employees() *Employees {
	return &Employees{api: a}
}

func (c *Employees) List(ctx context.Context, page Page) ([]user.Employee, error) {
	var out []user.Employee
	if err := c.api.getJSON(ctx, "/users", page.query(), &out); err != nil {
		return nil, fmt.Errorf("list employees: %w", err)
	}
	return out, nil
}

func (c *Employees) Get(ctx context.Context, id string) (user.Employee, error) {
	var out user.Employee
	if err := c.api.getJSON(ctx, "/users/"+escape(id), nil, &out); err != nil {
		return user.Employee{}, fmt.Errorf("get employee %s: %w", id, err)
	}
	return out, nil
}

// Company fetches the shelter company by id.
func (a *API) Company(ctx context.Context, id string) (shelter.Company, error) {
	var out shelter.Company
	if err := a.getJSON(ctx, "/companies/"+escape(id), nil, &out); err != nil {
		return shelter.Company{}, fmt.Errorf("get company %s: %w", id, err)
	}
	return out, nil
}
