package service

import (
	"context"
	"database/sql"
	"sort"
	"strings"

	"github.com/manhcun265/LVM-shop-manager/internal/domain"
	"github.com/manhcun265/LVM-shop-manager/internal/repository"

	"github.com/google/uuid"
)

// In-memory fakes for the repository layer. WithTx returns the fake
// itself and the fake TxRunner calls the callback with a nil *sql.Tx,
// so services exercise their full transactional path against maps.

type mockTxRunner struct{}

func (m *mockTxRunner) RunInTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	return fn(nil)
}

type mockProductRepository struct {
	products   map[uuid.UUID]*domain.Product
	order      []uuid.UUID
	categories *mockCategoryRepository
}

func newMockProductRepository(categories *mockCategoryRepository) *mockProductRepository {
	return &mockProductRepository{
		products:   make(map[uuid.UUID]*domain.Product),
		categories: categories,
	}
}

func (m *mockProductRepository) WithTx(tx *sql.Tx) repository.ProductRepository { return m }

func (m *mockProductRepository) Create(ctx context.Context, product *domain.Product) error {
	copied := *product
	m.products[product.ID] = &copied
	m.order = append(m.order, product.ID)
	return nil
}

func (m *mockProductRepository) Update(ctx context.Context, product *domain.Product) error {
	if _, ok := m.products[product.ID]; !ok {
		return repository.ErrProductNotFound
	}
	copied := *product
	m.products[product.ID] = &copied
	return nil
}

func (m *mockProductRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.ProductStatus) error {
	product, ok := m.products[id]
	if !ok {
		return repository.ErrProductNotFound
	}
	product.Status = status
	return nil
}

func (m *mockProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := m.products[id]; !ok {
		return repository.ErrProductNotFound
	}
	delete(m.products, id)
	for i, pid := range m.order {
		if pid == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return nil
}

func (m *mockProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	product, ok := m.products[id]
	if !ok {
		return nil, repository.ErrProductNotFound
	}
	copied := *product
	return &copied, nil
}

func (m *mockProductRepository) ExistsByID(ctx context.Context, id uuid.UUID) (bool, error) {
	_, ok := m.products[id]
	return ok, nil
}

func (m *mockProductRepository) CountByCategory(ctx context.Context, categoryID uuid.UUID) (int, error) {
	count := 0
	for _, product := range m.products {
		if product.CategoryID == categoryID {
			count++
		}
	}
	return count, nil
}

func (m *mockProductRepository) Search(ctx context.Context, filter repository.ProductFilter, page, pageSize int) ([]domain.ProductDetail, int, error) {
	matched := []domain.ProductDetail{}
	for _, id := range m.order {
		product := m.products[id]
		if filter.Keyword != nil &&
			!strings.Contains(strings.ToLower(product.Name), strings.ToLower(*filter.Keyword)) {
			continue
		}
		if filter.CategoryID != nil && product.CategoryID != *filter.CategoryID {
			continue
		}

		categoryName := ""
		if m.categories != nil {
			if category, ok := m.categories.categories[product.CategoryID]; ok {
				categoryName = category.Name
			}
		}
		matched = append(matched, domain.ProductDetail{
			ID:           product.ID,
			Name:         product.Name,
			Price:        product.Price,
			CategoryName: categoryName,
		})
	}

	total := len(matched)
	start := page * pageSize
	if start >= total {
		return []domain.ProductDetail{}, total, nil
	}
	end := start + pageSize
	if end > total {
		end = total
	}
	return matched[start:end], total, nil
}

type mockCategoryRepository struct {
	categories map[uuid.UUID]*domain.Category
}

func newMockCategoryRepository() *mockCategoryRepository {
	return &mockCategoryRepository{categories: make(map[uuid.UUID]*domain.Category)}
}

func (m *mockCategoryRepository) WithTx(tx *sql.Tx) repository.CategoryRepository { return m }

func (m *mockCategoryRepository) Create(ctx context.Context, category *domain.Category) error {
	for _, existing := range m.categories {
		if existing.Name == category.Name {
			return repository.ErrCategoryAlreadyExists
		}
	}
	copied := *category
	m.categories[category.ID] = &copied
	return nil
}

func (m *mockCategoryRepository) Update(ctx context.Context, category *domain.Category) error {
	if _, ok := m.categories[category.ID]; !ok {
		return repository.ErrCategoryNotFound
	}
	for id, existing := range m.categories {
		if id != category.ID && existing.Name == category.Name {
			return repository.ErrCategoryAlreadyExists
		}
	}
	copied := *category
	m.categories[category.ID] = &copied
	return nil
}

func (m *mockCategoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := m.categories[id]; !ok {
		return repository.ErrCategoryNotFound
	}
	delete(m.categories, id)
	return nil
}

func (m *mockCategoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Category, error) {
	category, ok := m.categories[id]
	if !ok {
		return nil, repository.ErrCategoryNotFound
	}
	copied := *category
	return &copied, nil
}

func (m *mockCategoryRepository) ExistsByID(ctx context.Context, id uuid.UUID) (bool, error) {
	_, ok := m.categories[id]
	return ok, nil
}

func (m *mockCategoryRepository) List(ctx context.Context) ([]*domain.Category, error) {
	categories := []*domain.Category{}
	for _, category := range m.categories {
		copied := *category
		categories = append(categories, &copied)
	}
	sort.Slice(categories, func(i, j int) bool { return categories[i].Name < categories[j].Name })
	return categories, nil
}

func (m *mockCategoryRepository) add(name string) uuid.UUID {
	id := uuid.New()
	m.categories[id] = &domain.Category{ID: id, Name: name}
	return id
}

type mockUserRepository struct {
	users map[uuid.UUID]*domain.User
}

func newMockUserRepository() *mockUserRepository {
	return &mockUserRepository{users: make(map[uuid.UUID]*domain.User)}
}

func (m *mockUserRepository) WithTx(tx *sql.Tx) repository.UserRepository { return m }

func (m *mockUserRepository) Create(ctx context.Context, user *domain.User) error {
	for _, existing := range m.users {
		if existing.Username == user.Username || existing.Email == user.Email {
			return repository.ErrUserAlreadyExists
		}
	}
	copied := *user
	m.users[user.ID] = &copied
	return nil
}

func (m *mockUserRepository) Update(ctx context.Context, user *domain.User) error {
	if _, ok := m.users[user.ID]; !ok {
		return repository.ErrUserNotFound
	}
	copied := *user
	m.users[user.ID] = &copied
	return nil
}

func (m *mockUserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := m.users[id]; !ok {
		return repository.ErrUserNotFound
	}
	delete(m.users, id)
	return nil
}

func (m *mockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	user, ok := m.users[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	copied := *user
	return &copied, nil
}

func (m *mockUserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	for _, user := range m.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (m *mockUserRepository) ExistsByID(ctx context.Context, id uuid.UUID) (bool, error) {
	_, ok := m.users[id]
	return ok, nil
}

func (m *mockUserRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	for _, user := range m.users {
		if user.Username == username {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	for _, user := range m.users {
		if user.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockUserRepository) List(ctx context.Context) ([]*domain.User, error) {
	users := []*domain.User{}
	for _, user := range m.users {
		copied := *user
		users = append(users, &copied)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].CreatedAt.Before(users[j].CreatedAt) })
	return users, nil
}

func (m *mockUserRepository) add(role domain.Role) uuid.UUID {
	id := uuid.New()
	m.users[id] = &domain.User{
		ID:       id,
		Username: "user-" + id.String()[:8],
		Email:    id.String()[:8] + "@example.com",
		Role:     role,
	}
	return id
}

type mockProductImageRepository struct {
	images map[uuid.UUID][]string
}

func newMockProductImageRepository() *mockProductImageRepository {
	return &mockProductImageRepository{images: make(map[uuid.UUID][]string)}
}

func (m *mockProductImageRepository) WithTx(tx *sql.Tx) repository.ProductImageRepository {
	return m
}

func (m *mockProductImageRepository) Replace(ctx context.Context, productID uuid.UUID, imageURLs []string) error {
	m.images[productID] = append([]string{}, imageURLs...)
	return nil
}

func (m *mockProductImageRepository) ListByProduct(ctx context.Context, productID uuid.UUID) ([]domain.ProductImage, error) {
	images := []domain.ProductImage{}
	for _, url := range m.images[productID] {
		images = append(images, domain.ProductImage{
			ID:        uuid.New(),
			ProductID: productID,
			ImageURL:  url,
		})
	}
	return images, nil
}

type mockStatusLogRepository struct {
	entries []domain.ProductStatusLog
}

func newMockStatusLogRepository() *mockStatusLogRepository {
	return &mockStatusLogRepository{}
}

func (m *mockStatusLogRepository) WithTx(tx *sql.Tx) repository.StatusLogRepository { return m }

func (m *mockStatusLogRepository) Append(ctx context.Context, entry *domain.ProductStatusLog) error {
	m.entries = append(m.entries, *entry)
	return nil
}

func (m *mockStatusLogRepository) ListByProduct(ctx context.Context, productID uuid.UUID) ([]domain.ProductStatusLog, error) {
	matched := []domain.ProductStatusLog{}
	for _, entry := range m.entries {
		if entry.ProductID == productID {
			matched = append(matched, entry)
		}
	}
	return matched, nil
}
