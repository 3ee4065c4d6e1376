package domain

// Product is the catalog reference carried on a cart line item. Price is
// in cents (KES minor units); Stock is the upper bound callers may enforce
// on quantities.
type Product struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Price    int64  `json:"price"`
	Stock    int    `json:"stock"`
	Unit     string `json:"unit,omitempty"`
	ImageURL string `json:"image_url,omitempty"`
}

// LineItem is a product with the quantity in the cart. Quantity is always
// at least 1; a zero quantity means the item is removed instead.
type LineItem struct {
	Product  Product `json:"product"`
	Quantity int     `json:"quantity"`
}

// Cart holds the line items for one storefront session. At most one line
// item exists per product ID.
type Cart struct {
	Items []LineItem `json:"items"`
}

// TotalPrice returns the sum of price times quantity over all line items,
// in cents.
func (c *Cart) TotalPrice() int64 {
	var total int64
	for _, item := range c.Items {
		total += item.Product.Price * int64(item.Quantity)
	}
	return total
}

// TotalItems returns the sum of quantities over all line items.
func (c *Cart) TotalItems() int {
	var count int
	for _, item := range c.Items {
		count += item.Quantity
	}
	return count
}

// FindItemIndex returns the index of the line item for the given product
// ID, or -1 if the cart has no such item.
func (c *Cart) FindItemIndex(productID string) int {
	for i := range c.Items {
		if c.Items[i].Product.ID == productID {
			return i
		}
	}
	return -1
}

// AddItem merges quantity into the existing line item for the product, or
// appends a new line item.
func (c *Cart) AddItem(product Product, quantity int) {
	if i := c.FindItemIndex(product.ID); i >= 0 {
		c.Items[i].Quantity += quantity
		c.Items[i].Product = product
		return
	}
	c.Items = append(c.Items, LineItem{Product: product, Quantity: quantity})
}

// SetQuantity sets the quantity of the line item for the product. A
// quantity of zero or less removes the item. Reports whether the cart
// changed.
func (c *Cart) SetQuantity(productID string, quantity int) bool {
	i := c.FindItemIndex(productID)
	if i < 0 {
		return false
	}
	if quantity <= 0 {
		c.Items = append(c.Items[:i], c.Items[i+1:]...)
		return true
	}
	c.Items[i].Quantity = quantity
	return true
}

// RemoveItem deletes the line item for the product, if present. Reports
// whether an item was removed.
func (c *Cart) RemoveItem(productID string) bool {
	i := c.FindItemIndex(productID)
	if i < 0 {
		return false
	}
	c.Items = append(c.Items[:i], c.Items[i+1:]...)
	return true
}

// Clear empties the cart.
func (c *Cart) Clear() {
	c.Items = nil
}
