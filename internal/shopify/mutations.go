package shopify

// CustomerUpdateMutation updates a customer's native fields; metafields can be set
// in the same CustomerInput.
const CustomerUpdateMutation = `
mutation customerUpdate($input: CustomerInput!) {
  customerUpdate(input: $input) {
    customer {
      id
      firstName
      lastName
      email
      phone
    }
    userErrors {
      field
      message
    }
  }
}
`

// MetafieldsSetMutation sets metafields on a resource (here, a Customer).
const MetafieldsSetMutation = `
mutation metafieldsSet($metafields: [MetafieldsSetInput!]!) {
  metafieldsSet(metafields: $metafields) {
    metafields {
      key
      namespace
      value
    }
    userErrors {
      field
      message
      code
    }
  }
}
`

// StagedUploadsCreateMutation requests a signed upload target for a file.
const StagedUploadsCreateMutation = `
mutation stagedUploadsCreate($input: [StagedUploadInput!]!) {
  stagedUploadsCreate(input: $input) {
    stagedTargets {
      url
      resourceUrl
      parameters {
        name
        value
      }
    }
    userErrors {
      field
      message
    }
  }
}
`

// FileCreateMutation registers an uploaded resource as a permanent file.
const FileCreateMutation = `
mutation fileCreate($files: [FileCreateInput!]!) {
  fileCreate(files: $files) {
    files {
      id
      fileStatus
    }
    userErrors {
      field
      message
    }
  }
}
`

// CustomerInput is the input for customerUpdate. Only pointer fields that are set
// are sent to Shopify.
type CustomerInput struct {
	ID         string           `json:"id"`
	FirstName  *string          `json:"firstName,omitempty"`
	LastName   *string          `json:"lastName,omitempty"`
	Email      *string          `json:"email,omitempty"`
	Phone      *string          `json:"phone,omitempty"`
	Metafields []MetafieldInput `json:"metafields,omitempty"`
}

// MetafieldInput sets a metafield inside CustomerInput.
type MetafieldInput struct {
	Namespace string `json:"namespace"`
	Key       string `json:"key"`
	Type      string `json:"type"`
	Value     string `json:"value"`
}

// MetafieldsSetInput is used with the metafieldsSet mutation.
type MetafieldsSetInput struct {
	OwnerID   string `json:"ownerId"`
	Namespace string `json:"namespace"`
	Key       string `json:"key"`
	Type      string `json:"type"`
	Value     string `json:"value"`
}

// StagedUploadInput is the input for stagedUploadsCreate.
type StagedUploadInput struct {
	Resource   string `json:"resource"`
	Filename   string `json:"filename"`
	MimeType   string `json:"mimeType"`
	HTTPMethod string `json:"httpMethod"`
}

// StagedUploadParameter is one signed form field that must accompany the binary upload.
type StagedUploadParameter struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// StagedUploadTarget is the signed upload destination returned by stagedUploadsCreate.
type StagedUploadTarget struct {
	URL         string                  `json:"url"`
	ResourceURL string                  `json:"resourceUrl"`
	Parameters  []StagedUploadParameter `json:"parameters"`
}

// FileCreateInput registers a staged resource URL as a file.
type FileCreateInput struct {
	OriginalSource string `json:"originalSource"`
	ContentType    string `json:"contentType"`
	Alt            string `json:"alt,omitempty"`
}
