package service

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/adeemgetnoor/customer-profile-manager/internal/domain"
	"github.com/adeemgetnoor/customer-profile-manager/internal/shopify"
	"github.com/adeemgetnoor/customer-profile-manager/pkg/errors"
)

// UpdateCustomerRequest carries the native and custom fields a storefront can
// change. Nil pointers are left untouched upstream.
type UpdateCustomerRequest struct {
	CustomerID     string  `json:"customer_id"`
	FirstName      *string `json:"first_name,omitempty"`
	LastName       *string `json:"last_name,omitempty"`
	Email          *string `json:"email,omitempty"`
	Phone          *string `json:"phone,omitempty"`
	AlternatePhone *string `json:"alternate_phone,omitempty"`
	Gender         *string `json:"gender,omitempty"`
	DateOfBirth    *string `json:"date_of_birth,omitempty"`
}

// UpdateProfileRequest carries only the custom metafield part of the profile.
type UpdateProfileRequest struct {
	CustomerID     string  `json:"customer_id"`
	AlternatePhone *string `json:"alternate_phone,omitempty"`
	Gender         *string `json:"gender,omitempty"`
	DateOfBirth    *string `json:"date_of_birth,omitempty"`
}

// ProfileService proxies customer profile reads and writes to the Admin API.
type ProfileService struct {
	gql    GraphQLExecutor
	logger *zap.Logger
}

// NewProfileService creates a new profile service
func NewProfileService(gql GraphQLExecutor, logger *zap.Logger) *ProfileService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProfileService{gql: gql, logger: logger}
}

// GetProfile fetches the customer's native fields and custom metafields.
func (s *ProfileService) GetProfile(ctx context.Context, customerID string) (*domain.CustomerProfile, error) {
	if customerID == "" {
		return nil, &errors.ErrValidation{Message: "customer_id is required"}
	}

	resp, err := s.gql.Execute(ctx, shopify.CustomerProfileQuery, map[string]interface{}{
		"id": shopify.CustomerGID(customerID),
	})
	if err != nil {
		return nil, fmt.Errorf("fetch customer: %w", err)
	}

	var result struct {
		Customer *struct {
			ID         string `json:"id"`
			FirstName  string `json:"firstName"`
			LastName   string `json:"lastName"`
			Email      string `json:"email"`
			Phone      string `json:"phone"`
			Metafields struct {
				Edges []struct {
					Node struct {
						Key   string `json:"key"`
						Value string `json:"value"`
					} `json:"node"`
				} `json:"edges"`
			} `json:"metafields"`
		} `json:"customer"`
	}
	if err := json.Unmarshal(resp.Data, &result); err != nil {
		return nil, fmt.Errorf("parse customer response: %w", err)
	}
	if result.Customer == nil {
		return nil, &errors.ErrNotFound{Resource: "customer", ID: customerID}
	}

	profile := &domain.CustomerProfile{
		ID:        shopify.ExtractIDFromGID(result.Customer.ID),
		FirstName: result.Customer.FirstName,
		LastName:  result.Customer.LastName,
		Email:     result.Customer.Email,
		Phone:     result.Customer.Phone,
	}
	for _, edge := range result.Customer.Metafields.Edges {
		switch edge.Node.Key {
		case "alternate_phone":
			profile.AlternatePhone = edge.Node.Value
		case "gender":
			profile.Gender = edge.Node.Value
		case "date_of_birth":
			profile.DateOfBirth = edge.Node.Value
		case "profile_image":
			profile.ProfileImage = edge.Node.Value
		}
	}
	return profile, nil
}

// UpdateCustomer updates native customer fields and any provided custom
// metafields in a single customerUpdate call.
func (s *ProfileService) UpdateCustomer(ctx context.Context, req UpdateCustomerRequest) (*domain.CustomerProfile, error) {
	if req.CustomerID == "" {
		return nil, &errors.ErrValidation{Message: "customer_id is required"}
	}

	input := shopify.CustomerInput{
		ID:        shopify.CustomerGID(req.CustomerID),
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Phone:     req.Phone,
	}
	input.Metafields = profileMetafieldInputs(req.AlternatePhone, req.Gender, req.DateOfBirth)

	resp, err := s.gql.Execute(ctx, shopify.CustomerUpdateMutation, map[string]interface{}{
		"input": input,
	})
	if err != nil {
		return nil, fmt.Errorf("customerUpdate: %w", err)
	}

	var result struct {
		CustomerUpdate struct {
			Customer *struct {
				ID        string `json:"id"`
				FirstName string `json:"firstName"`
				LastName  string `json:"lastName"`
				Email     string `json:"email"`
				Phone     string `json:"phone"`
			} `json:"customer"`
			UserErrors []shopify.UserError `json:"userErrors"`
		} `json:"customerUpdate"`
	}
	if err := json.Unmarshal(resp.Data, &result); err != nil {
		return nil, fmt.Errorf("parse customerUpdate response: %w", err)
	}
	if len(result.CustomerUpdate.UserErrors) > 0 {
		return nil, &errors.ErrShopifyUserErrors{Operation: "customerUpdate", Errors: result.CustomerUpdate.UserErrors}
	}
	if result.CustomerUpdate.Customer == nil {
		return nil, fmt.Errorf("customerUpdate returned no customer")
	}

	return &domain.CustomerProfile{
		ID:        shopify.ExtractIDFromGID(result.CustomerUpdate.Customer.ID),
		FirstName: result.CustomerUpdate.Customer.FirstName,
		LastName:  result.CustomerUpdate.Customer.LastName,
		Email:     result.CustomerUpdate.Customer.Email,
		Phone:     result.CustomerUpdate.Customer.Phone,
	}, nil
}

// UpdateProfile sets only the provided custom metafields. It returns nil with
// no error when the request carries no fields; the handler answers with a
// "nothing to update" message in that case.
func (s *ProfileService) UpdateProfile(ctx context.Context, req UpdateProfileRequest) (*domain.CustomerProfile, error) {
	if req.CustomerID == "" {
		return nil, &errors.ErrValidation{Message: "customer_id is required"}
	}

	inputs := profileMetafieldInputs(req.AlternatePhone, req.Gender, req.DateOfBirth)
	if len(inputs) == 0 {
		return nil, nil
	}

	ownerID := shopify.CustomerGID(req.CustomerID)
	metafields := make([]shopify.MetafieldsSetInput, 0, len(inputs))
	for _, in := range inputs {
		metafields = append(metafields, shopify.MetafieldsSetInput{
			OwnerID:   ownerID,
			Namespace: in.Namespace,
			Key:       in.Key,
			Type:      in.Type,
			Value:     in.Value,
		})
	}

	resp, err := s.gql.Execute(ctx, shopify.MetafieldsSetMutation, map[string]interface{}{
		"metafields": metafields,
	})
	if err != nil {
		return nil, fmt.Errorf("metafieldsSet: %w", err)
	}

	var result struct {
		MetafieldsSet struct {
			UserErrors []shopify.UserError `json:"userErrors"`
		} `json:"metafieldsSet"`
	}
	if err := json.Unmarshal(resp.Data, &result); err != nil {
		return nil, fmt.Errorf("parse metafieldsSet response: %w", err)
	}
	if len(result.MetafieldsSet.UserErrors) > 0 {
		return nil, &errors.ErrShopifyUserErrors{Operation: "metafieldsSet", Errors: result.MetafieldsSet.UserErrors}
	}

	return s.GetProfile(ctx, req.CustomerID)
}

// profileMetafieldInputs builds metafield inputs for whichever custom profile
// fields are present. date_of_birth is a date metafield, the rest are text.
func profileMetafieldInputs(alternatePhone, gender, dateOfBirth *string) []shopify.MetafieldInput {
	var inputs []shopify.MetafieldInput
	if alternatePhone != nil {
		inputs = append(inputs, shopify.MetafieldInput{
			Namespace: metafieldNamespace, Key: "alternate_phone",
			Type: "single_line_text_field", Value: *alternatePhone,
		})
	}
	if gender != nil {
		inputs = append(inputs, shopify.MetafieldInput{
			Namespace: metafieldNamespace, Key: "gender",
			Type: "single_line_text_field", Value: *gender,
		})
	}
	if dateOfBirth != nil {
		inputs = append(inputs, shopify.MetafieldInput{
			Namespace: metafieldNamespace, Key: "date_of_birth",
			Type: "date", Value: *dateOfBirth,
		})
	}
	return inputs
}
