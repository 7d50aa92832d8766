package graph

// The fragment shared by every operation returning the current cart. The
// server returns the full snapshot so the client can replace its view
// wholesale instead of patching lines. __typename is selected on every
// entity so the normalized cache can identify them.
const cartFragment = `
fragment CartFragment on UserCart {
  __typename
  id
  completedAt
  pickedProvider
  contents {
    __typename
    ... on CartProviderProduct { id quantity createdAt product { ...ProductFragment } }
    ... on CartAggregateProduct {
      id quantity createdAt
      aggregate { __typename id name imageUrl price ingredients { ...ProductFragment } }
    }
    ... on CartNoteProduct { id quantity createdAt note }
  }
  tallies { provider priceCents }
}` + productFragment

const productFragment = `
fragment ProductFragment on WggSearchProduct {
  __typename
  id name displayPrice fullPrice imageUrl available
  unitQuantity { unit amount }
  unitPrice { unit price }
  providerInfo { __typename provider logoUrl }
}`

var ViewerInfoQuery = Operation{
	Name: "ViewerInfoQuery",
	Kind: KindQuery,
	Document: `query ViewerInfoQuery($price: PriceFilter!) {
  viewer {
    id email displayName isAdmin
    currentCart(price: $price) { ...CartFragment }
  }
  proProviders { __typename provider logoUrl }
}` + cartFragment,
}

var CartCurrentQuery = Operation{
	Name: "CartCurrentQuery",
	Kind: KindQuery,
	Document: `query CartCurrentQuery($price: PriceFilter!) {
  cartCurrent(price: $price) { ...CartFragment }
}` + cartFragment,
}

var SetProductToCart = Operation{
	Name: "SetProductToCart",
	Kind: KindMutation,
	Document: `mutation SetProductToCart($input: CartAddProductInput!, $price: PriceFilter!) {
  cartCurrentSetProduct(input: $input) {
    data(price: $price) { ...CartFragment }
  }
}` + cartFragment,
}

var RemoveProductFromCart = Operation{
	Name: "RemoveProductFromCart",
	Kind: KindMutation,
	Document: `mutation RemoveProductFromCart($input: CartRemoveProductInput!, $price: PriceFilter!) {
  cartCurrentRemoveProduct(input: $input) {
    data(price: $price) { ...CartFragment }
  }
}` + cartFragment,
}

var SubmitLogin = Operation{
	Name: "SubmitLogin",
	Kind: KindMutation,
	Document: `mutation SubmitLogin($email: String!, $password: String!) {
  login(input: { email: $email, password: $password }) {
    user { id email displayName isAdmin }
  }
}`,
}

var LogoutMutation = Operation{
	Name: "LogoutMutation",
	Kind: KindMutation,
	Document: `mutation LogoutMutation {
  logout
}`,
}

var AggregateIngredientsQuery = Operation{
	Name: "AggregateIngredientsQuery",
	Kind: KindQuery,
	Document: `query AggregateIngredientsQuery($price: PriceFilter!) {
  aggregateIngredients(price: $price) {
    __typename id name imageUrl price ingredients { ...ProductFragment }
  }
}` + productFragment,
}

var DeleteAggregates = Operation{
	Name: "DeleteAggregates",
	Kind: KindMutation,
	Document: `mutation DeleteAggregates($ids: [Int!]!) {
  aggregateDelete(ids: $ids) { deleted }
}`,
}

var FilteredPromotionsQuery = Operation{
	Name: "FilteredPromotionsQuery",
	Kind: KindQuery,
	Document: `query FilteredPromotionsQuery($provider: Provider!) {
  proPromotions(filters: { provider: $provider }) {
    __typename id name imageUrls
    providerInfo { __typename provider logoUrl }
    limitedItems { ...ProductFragment }
  }
}` + productFragment,
}

var FullProductQuery = Operation{
	Name: "FullProductQuery",
	Kind: KindQuery,
	Document: `query FullProductQuery($provider: Provider!, $productId: String!) {
  proProduct(provider: $provider, productId: $productId) {
    __typename
    id name available imageUrls
    priceInfo { displayPrice originalPrice unitPrice { unit price } }
    unitQuantity { unit amount }
    providerInfo { __typename provider logoUrl }
  }
}`,
}
