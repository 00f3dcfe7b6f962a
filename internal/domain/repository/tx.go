package repository

// TxRepos repositorios atados a una misma transacción. Todo lo que se haga con ellos
// se confirma o se descarta junto.
type TxRepos struct {
	Orders    OrderRepository
	Sales     SaleRepository
	Payments  PaymentRepository
	Products  ProductRepository
	Customers CustomerRepository
	Loyalty   LoyaltyRepository
	Reversals ReversalRepository
}
