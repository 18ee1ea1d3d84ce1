package memory

import (
	"context"

	"restaurant-ordering/internal/domain"
)

var seedMenu = []domain.MenuItem{
	{Name: "Chicken Biryani", Description: "Fragrant basmati rice cooked with tender chicken, spices, and herbs", Price: 1800, Category: "Main Course", Image: "https://images.unsplash.com/photo-1631452180519-c014fe946bc7?w=400&h=300&fit=crop", Available: true, Spicy: true, Rating: 4.8},
	{Name: "Margherita Pizza", Description: "Classic pizza with tomato sauce, mozzarella, and fresh basil", Price: 2200, Category: "Italian", Image: "https://images.unsplash.com/photo-1604068549290-dea0e4a305ca?w=400&h=300&fit=crop", Available: true, Vegetarian: true, Rating: 4.6},
	{Name: "Beef Burger", Description: "Juicy beef patty with cheese, lettuce, tomato, and special sauce", Price: 1500, Category: "Fast Food", Image: "https://images.unsplash.com/photo-1568901346375-23c9450c58cd?w=400&h=300&fit=crop", Available: true, Rating: 4.5},
	{Name: "Caesar Salad", Description: "Fresh romaine lettuce with Caesar dressing, croutons, and parmesan", Price: 1200, Category: "Salads", Image: "https://images.unsplash.com/photo-1546793665-c74683f339c1?w=400&h=300&fit=crop", Available: true, Vegetarian: true, Rating: 4.3},
	{Name: "Chocolate Brownie", Description: "Warm chocolate brownie with vanilla ice cream and chocolate sauce", Price: 800, Category: "Desserts", Image: "https://images.unsplash.com/photo-1564355808539-22fda35bed7e?w=400&h=300&fit=crop", Available: true, Vegetarian: true, Rating: 4.7},
	{Name: "Grilled Chicken", Description: "Tender chicken breast grilled to perfection with herbs and spices", Price: 2000, Category: "Grills", Image: "https://images.unsplash.com/photo-1532550907401-a500c9a57435?w=400&h=300&fit=crop", Available: true, Rating: 4.4},
	{Name: "Vegetable Pasta", Description: "Pasta with fresh vegetables in creamy tomato sauce", Price: 1600, Category: "Italian", Image: "https://images.unsplash.com/photo-1563379926898-05f4575a45d8?w=400&h=300&fit=crop", Available: true, Vegetarian: true, Rating: 4.2},
	{Name: "Mango Lassi", Description: "Refreshing yogurt-based drink with mango pulp", Price: 500, Category: "Drinks", Image: "https://images.unsplash.com/photo-1628992682633-bf2d40cb595f?w=400&h=300&fit=crop", Available: true, Vegetarian: true, Rating: 4.6},
}

var seedTables = []domain.Table{
	{ID: 1, Number: "T01", Seats: 2, Available: true},
	{ID: 2, Number: "T02", Seats: 4, Available: true},
	{ID: 3, Number: "T03", Seats: 6, Available: true},
	{ID: 4, Number: "T04", Seats: 2, Available: true},
	{ID: 5, Number: "T05", Seats: 4, Available: true},
}

// Seed loads the default catalog and table registry into an empty store.
func Seed(s *Store) error {
	ctx := context.Background()
	for _, item := range seedMenu {
		if _, err := s.CreateMenuItem(ctx, item); err != nil {
			return err
		}
	}
	for _, t := range seedTables {
		if _, err := s.CreateTable(ctx, t); err != nil {
			return err
		}
	}
	return nil
}
