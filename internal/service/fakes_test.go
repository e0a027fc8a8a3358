package service

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/adeemgetnoor/customer-profile-manager/internal/products"
	"github.com/adeemgetnoor/customer-profile-manager/internal/shopify"
	"github.com/adeemgetnoor/customer-profile-manager/pkg/errors"
)

// fakeCustomer is the upstream customer record the fake serves.
type fakeCustomer struct {
	ID         string
	FirstName  string
	LastName   string
	Email      string
	Phone      string
	Metafields map[string]string
}

// fakeGraphQL stands in for the Shopify Admin GraphQL endpoint. It answers the
// queries and mutations the services issue, records every call, and mirrors the
// real client's contract: the returned Data is already the "data" object.
type fakeGraphQL struct {
	wishlist *string // stored custom.wishlist value; nil means no metafield
	customer *fakeCustomer

	metafieldsSetCalls      [][]shopify.MetafieldsSetInput
	metafieldsSetUserErrors []shopify.UserError

	customerUpdateUserErrors []shopify.UserError

	stageTarget          *shopify.StagedUploadTarget
	stageUserErrors      []shopify.UserError
	fileID               string
	fileCreateUserErrors []shopify.UserError

	queries []string
	execErr error
}

func strPtr(s string) *string { return &s }

func (f *fakeGraphQL) callCount(substr string) int {
	n := 0
	for _, q := range f.queries {
		if strings.Contains(q, substr) {
			n++
		}
	}
	return n
}

func (f *fakeGraphQL) lastMetafieldsSet() []shopify.MetafieldsSetInput {
	if len(f.metafieldsSetCalls) == 0 {
		return nil
	}
	return f.metafieldsSetCalls[len(f.metafieldsSetCalls)-1]
}

func (f *fakeGraphQL) Execute(_ context.Context, query string, variables map[string]interface{}) (*shopify.GraphQLResponse, error) {
	f.queries = append(f.queries, query)
	if f.execErr != nil {
		return nil, f.execErr
	}

	switch {
	case strings.Contains(query, "getCustomerMetafields"):
		return respond(map[string]interface{}{
			"customer": map[string]interface{}{
				"id":         "gid://shopify/Customer/1",
				"metafields": f.metafieldEdges(),
			},
		})

	case strings.Contains(query, "getCustomerProfile"):
		if f.customer == nil {
			return respond(map[string]interface{}{"customer": nil})
		}
		edges := []map[string]interface{}{}
		for k, v := range f.customer.Metafields {
			edges = append(edges, map[string]interface{}{
				"node": map[string]interface{}{"key": k, "value": v},
			})
		}
		return respond(map[string]interface{}{
			"customer": map[string]interface{}{
				"id":         f.customer.ID,
				"firstName":  f.customer.FirstName,
				"lastName":   f.customer.LastName,
				"email":      f.customer.Email,
				"phone":      f.customer.Phone,
				"metafields": map[string]interface{}{"edges": edges},
			},
		})

	case strings.Contains(query, "customerUpdate"):
		if len(f.customerUpdateUserErrors) > 0 {
			return respond(map[string]interface{}{
				"customerUpdate": map[string]interface{}{
					"customer":   nil,
					"userErrors": f.customerUpdateUserErrors,
				},
			})
		}
		input := variables["input"].(shopify.CustomerInput)
		deref := func(p *string) string {
			if p == nil {
				return ""
			}
			return *p
		}
		return respond(map[string]interface{}{
			"customerUpdate": map[string]interface{}{
				"customer": map[string]interface{}{
					"id":        input.ID,
					"firstName": deref(input.FirstName),
					"lastName":  deref(input.LastName),
					"email":     deref(input.Email),
					"phone":     deref(input.Phone),
				},
				"userErrors": []shopify.UserError{},
			},
		})

	case strings.Contains(query, "metafieldsSet"):
		inputs := variables["metafields"].([]shopify.MetafieldsSetInput)
		f.metafieldsSetCalls = append(f.metafieldsSetCalls, inputs)
		if len(f.metafieldsSetUserErrors) == 0 {
			for _, in := range inputs {
				if in.Key == "wishlist" {
					v := in.Value
					f.wishlist = &v
				}
			}
		}
		return respond(map[string]interface{}{
			"metafieldsSet": map[string]interface{}{
				"metafields": []interface{}{},
				"userErrors": f.metafieldsSetUserErrors,
			},
		})

	case strings.Contains(query, "stagedUploadsCreate"):
		targets := []shopify.StagedUploadTarget{}
		if f.stageTarget != nil {
			targets = append(targets, *f.stageTarget)
		}
		return respond(map[string]interface{}{
			"stagedUploadsCreate": map[string]interface{}{
				"stagedTargets": targets,
				"userErrors":    f.stageUserErrors,
			},
		})

	case strings.Contains(query, "fileCreate"):
		files := []interface{}{}
		if f.fileID != "" {
			files = append(files, map[string]interface{}{"id": f.fileID})
		}
		return respond(map[string]interface{}{
			"fileCreate": map[string]interface{}{
				"files":      files,
				"userErrors": f.fileCreateUserErrors,
			},
		})
	}

	return respond(map[string]interface{}{})
}

func (f *fakeGraphQL) metafieldEdges() map[string]interface{} {
	edges := []map[string]interface{}{}
	if f.wishlist != nil {
		edges = append(edges, map[string]interface{}{
			"node": map[string]interface{}{"key": "wishlist", "value": *f.wishlist},
		})
	}
	return map[string]interface{}{"edges": edges}
}

func respond(data map[string]interface{}) (*shopify.GraphQLResponse, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	return &shopify.GraphQLResponse{Data: raw}, nil
}

// fakeLookup is an in-memory ProductLookup.
type fakeLookup struct {
	byID     map[string]products.Product
	byHandle map[string]products.Product

	idCalls     []string
	handleCalls []string
}

func (f *fakeLookup) ByID(_ context.Context, id string) (*products.Product, error) {
	f.idCalls = append(f.idCalls, id)
	if p, ok := f.byID[id]; ok {
		return &p, nil
	}
	return nil, &errors.ErrNotFound{Resource: "product", ID: id}
}

func (f *fakeLookup) ByHandle(_ context.Context, handle string) (*products.Product, error) {
	f.handleCalls = append(f.handleCalls, handle)
	if p, ok := f.byHandle[handle]; ok {
		return &p, nil
	}
	return nil, &errors.ErrNotFound{Resource: "product", ID: handle}
}
