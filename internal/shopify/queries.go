package shopify

// CustomerProfileQuery fetches a customer's native fields plus the custom metafields
// this service manages (alternate_phone, gender, date_of_birth, profile_image, wishlist).
const CustomerProfileQuery = `
query getCustomerProfile($id: ID!) {
  customer(id: $id) {
    id
    firstName
    lastName
    email
    phone
    metafields(namespace: "custom", first: 20) {
      edges {
        node {
          id
          key
          value
          type
        }
      }
    }
  }
}
`

// CustomerMetafieldsQuery fetches only the custom-namespace metafields of a customer.
// Used by the wishlist adapter, which needs the stored wishlist text and nothing else.
const CustomerMetafieldsQuery = `
query getCustomerMetafields($id: ID!) {
  customer(id: $id) {
    id
    metafields(namespace: "custom", first: 20) {
      edges {
        node {
          key
          value
        }
      }
    }
  }
}
`

// ProductByHandleQuery resolves a product by its URL handle.
const ProductByHandleQuery = `
query getProductByHandle($handle: String!) {
  productByHandle(handle: $handle) {
    id
    handle
    title
    featuredImage {
      url
    }
  }
}
`

// ShopQuery fetches the shop name; used by health/diagnostic checks to verify the token.
const ShopQuery = `
query getShop {
  shop {
    name
    myshopifyDomain
  }
}
`
