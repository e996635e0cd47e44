package catalog

const imgBase = "https://images.unsplash.com/"

func img(id string) string {
	return imgBase + id + "?w=400&h=400&fit=crop"
}

// SampleProducts is the built-in storefront catalog.
func SampleProducts() []Product {
	return []Product{
		{
			ID:                 "1",
			Name:               "Women's Floral Summer Dress",
			PriceCents:         8999,
			OriginalPriceCents: 12999,
			Category:           "Women's Fashion",
			Rating:             4.5,
			Reviews:            124,
			InStock:            true,
			IsNew:              true,
			IsSale:             true,
			Description:        "Beautiful floral print summer dress perfect for casual outings and special occasions. Made from lightweight, breathable fabric.",
			Colors:             []string{"Blue", "Pink", "White"},
			Sizes:              []string{"XS", "S", "M", "L", "XL"},
			Image:              img("photo-1572804013309-59a88b7e92f1"),
			Gallery: []string{
				img("photo-1572804013309-59a88b7e92f1"),
				img("photo-1594633313593-bab3825d0caf"),
				img("photo-1515372039744-b8f02a3ae446"),
			},
		},
		{
			ID:                 "2",
			Name:               "Men's Black Premium Hoodie",
			PriceCents:         7999,
			OriginalPriceCents: 9999,
			Category:           "Men's Fashion",
			Rating:             4.8,
			Reviews:            89,
			InStock:            true,
			IsSale:             true,
			Description:        "Premium quality black hoodie made from soft cotton blend. Perfect for layering and casual wear.",
			Colors:             []string{"Black", "Gray", "Navy"},
			Sizes:              []string{"S", "M", "L", "XL", "XXL"},
			Image:              img("photo-1556821840-3a63f95609a7"),
			Gallery: []string{
				img("photo-1556821840-3a63f95609a7"),
				img("photo-1521572163474-6864f9cf17ab"),
				img("photo-1503341504253-dff4815485f1"),
			},
		},
		{
			ID:          "3",
			Name:        "Classic White Sneakers",
			PriceCents:  12999,
			Category:    "Shoes",
			Rating:      4.6,
			Reviews:     156,
			InStock:     true,
			IsNew:       true,
			Description: "Timeless white sneakers that go with everything. Comfortable sole and premium leather construction.",
			Colors:      []string{"White", "Black", "Gray"},
			Sizes:       []string{"6", "7", "8", "9", "10", "11", "12"},
			Image:       img("photo-1549298916-b41d501d3772"),
			Gallery: []string{
				img("photo-1549298916-b41d501d3772"),
				img("photo-1606107557195-0e29a4b5b4aa"),
				img("photo-1595950653106-6c9ebd614d3a"),
			},
		},
		{
			ID:                 "4",
			Name:               "Leather Shoulder Bag",
			PriceCents:         19999,
			OriginalPriceCents: 24999,
			Category:           "Accessories",
			Rating:             4.7,
			Reviews:            73,
			InStock:            true,
			IsSale:             true,
			Description:        "Elegant leather shoulder bag perfect for work or casual outings. Multiple compartments for organization.",
			Colors:             []string{"Brown", "Black", "Tan"},
			Sizes:              []string{"One Size"},
			Image:              img("photo-1553062407-98eeb64c6a62"),
			Gallery: []string{
				img("photo-1553062407-98eeb64c6a62"),
				img("photo-1584917865442-de89df76afd3"),
				img("photo-1590874103328-eac38a683ce7"),
			},
		},
		{
			ID:          "5",
			Name:        "Casual Denim Jacket",
			PriceCents:  8999,
			Category:    "Women's Fashion",
			Rating:      4.4,
			Reviews:     92,
			InStock:     true,
			Description: "Classic denim jacket that never goes out of style. Perfect for layering over dresses or with jeans.",
			Colors:      []string{"Light Blue", "Dark Blue", "Black"},
			Sizes:       []string{"XS", "S", "M", "L", "XL"},
			Image:       img("photo-1544966503-7e33bd0cd7ea"),
			Gallery: []string{
				img("photo-1544966503-7e33bd0cd7ea"),
				img("photo-1582418702059-97ebafb35d09"),
				img("photo-1576995853123-5a10305d93c0"),
			},
		},
		{
			ID:                 "6",
			Name:               "Silk Scarf Collection",
			PriceCents:         5999,
			OriginalPriceCents: 7999,
			Category:           "Accessories",
			Rating:             4.9,
			Reviews:            45,
			InStock:            true,
			IsNew:              true,
			IsSale:             true,
			Description:        "Luxurious silk scarf with beautiful patterns. Versatile accessory that adds elegance to any outfit.",
			Colors:             []string{"Floral", "Geometric", "Abstract"},
			Sizes:              []string{"One Size"},
			Image:              img("photo-1601924994987-69e26d50dc26"),
			Gallery: []string{
				img("photo-1601924994987-69e26d50dc26"),
				img("photo-1602810318383-e386cc2a3ccf"),
				img("photo-1583744946564-b52ac1c389c8"),
			},
		},
	}
}

func SampleCategories() []Category {
	return []Category{
		{Name: "Women's Fashion", Slug: "women", Count: 156},
		{Name: "Men's Fashion", Slug: "men", Count: 134},
		{Name: "Shoes", Slug: "shoes", Count: 89},
		{Name: "Accessories", Slug: "accessories", Count: 67},
		{Name: "Kids", Slug: "kids", Count: 45},
		{Name: "Sale", Slug: "sale", Count: 78},
	}
}
