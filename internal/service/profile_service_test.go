package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adeemgetnoor/customer-profile-manager/internal/shopify"
	"github.com/adeemgetnoor/customer-profile-manager/pkg/errors"
)

func TestGetProfileMapsFieldsAndMetafields(t *testing.T) {
	gql := &fakeGraphQL{customer: &fakeCustomer{
		ID:        "gid://shopify/Customer/5",
		FirstName: "Amira",
		LastName:  "Haddad",
		Email:     "amira@example.com",
		Phone:     "+962770000000",
		Metafields: map[string]string{
			"gender":        "female",
			"date_of_birth": "1990-04-02",
		},
	}}
	svc := NewProfileService(gql, nil)

	profile, err := svc.GetProfile(context.Background(), "5")
	require.NoError(t, err)
	assert.Equal(t, "5", profile.ID, "GID is reduced to the bare numeric id")
	assert.Equal(t, "Amira", profile.FirstName)
	assert.Equal(t, "female", profile.Gender)
	assert.Equal(t, "1990-04-02", profile.DateOfBirth)
}

func TestGetProfileUnknownCustomer(t *testing.T) {
	svc := NewProfileService(&fakeGraphQL{}, nil)

	_, err := svc.GetProfile(context.Background(), "999")
	var nf *errors.ErrNotFound
	assert.ErrorAs(t, err, &nf)
}

func TestUpdateCustomerSendsOnlyProvidedFields(t *testing.T) {
	gql := &fakeGraphQL{}
	svc := NewProfileService(gql, nil)

	profile, err := svc.UpdateCustomer(context.Background(), UpdateCustomerRequest{
		CustomerID: "5",
		FirstName:  strPtr("Amira"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Amira", profile.FirstName)
	assert.Equal(t, 1, gql.callCount("customerUpdate"))
}

func TestUpdateCustomerSurfacesUserErrors(t *testing.T) {
	gql := &fakeGraphQL{
		customerUpdateUserErrors: []shopify.UserError{{Field: []string{"email"}, Message: "Email is invalid"}},
	}
	svc := NewProfileService(gql, nil)

	_, err := svc.UpdateCustomer(context.Background(), UpdateCustomerRequest{
		CustomerID: "5",
		Email:      strPtr("nope"),
	})
	var uerr *errors.ErrShopifyUserErrors
	require.ErrorAs(t, err, &uerr)
	assert.Equal(t, "Email is invalid", uerr.Errors[0].Message)
}

func TestUpdateProfileWithNoFieldsSkipsUpstream(t *testing.T) {
	gql := &fakeGraphQL{}
	svc := NewProfileService(gql, nil)

	profile, err := svc.UpdateProfile(context.Background(), UpdateProfileRequest{CustomerID: "5"})
	require.NoError(t, err)
	assert.Nil(t, profile)
	assert.Empty(t, gql.queries, "nothing to update means no upstream call")
}

func TestUpdateProfileSetsMetafields(t *testing.T) {
	gql := &fakeGraphQL{customer: &fakeCustomer{
		ID:         "gid://shopify/Customer/5",
		Metafields: map[string]string{"gender": "male"},
	}}
	svc := NewProfileService(gql, nil)

	profile, err := svc.UpdateProfile(context.Background(), UpdateProfileRequest{
		CustomerID: "5",
		Gender:     strPtr("male"),
	})
	require.NoError(t, err)
	require.NotNil(t, profile)

	require.Len(t, gql.metafieldsSetCalls, 1)
	set := gql.lastMetafieldsSet()[0]
	assert.Equal(t, "gender", set.Key)
	assert.Equal(t, "single_line_text_field", set.Type)
	assert.Equal(t, "gid://shopify/Customer/5", set.OwnerID)
}

func TestUpdateProfileDateOfBirthUsesDateType(t *testing.T) {
	gql := &fakeGraphQL{customer: &fakeCustomer{ID: "gid://shopify/Customer/5"}}
	svc := NewProfileService(gql, nil)

	_, err := svc.UpdateProfile(context.Background(), UpdateProfileRequest{
		CustomerID:  "5",
		DateOfBirth: strPtr("1990-04-02"),
	})
	require.NoError(t, err)
	require.Len(t, gql.metafieldsSetCalls, 1)
	assert.Equal(t, "date", gql.lastMetafieldsSet()[0].Type)
}

func TestProfileValidation(t *testing.T) {
	svc := NewProfileService(&fakeGraphQL{}, nil)
	var verr *errors.ErrValidation

	_, err := svc.GetProfile(context.Background(), "")
	assert.ErrorAs(t, err, &verr)

	_, err = svc.UpdateCustomer(context.Background(), UpdateCustomerRequest{})
	assert.ErrorAs(t, err, &verr)

	_, err = svc.UpdateProfile(context.Background(), UpdateProfileRequest{})
	assert.ErrorAs(t, err, &verr)
}
