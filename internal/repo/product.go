package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/Skotchmaster/storefront/internal/models"
)

func (r *GormRepo) GetProduct(ctx context.Context, id uint) (*models.Product, error) {
	var product models.Product
	if err := r.DB.WithContext(ctx).Where("id = ?", id).First(&product).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *GormRepo) CreateProduct(ctx context.Context, prod *models.Product) (*models.Product, error) {
	if err := r.DB.WithContext(ctx).Create(prod).Error; err != nil {
		return nil, err
	}
	return prod, nil
}

// DecrementStock takes q units only if that many are on hand. It reports
// false without error when the guard did not match (missing product or not
// enough stock); the caller tells those apart.
func (r *GormRepo) DecrementStock(ctx context.Context, id uint, q int) (bool, error) {
	res := r.DB.WithContext(ctx).Model(&models.Product{}).
		Where("id = ? AND stock_quantity >= ?", id, q).
		Update("stock_quantity", gorm.Expr("stock_quantity - ?", q))
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}
