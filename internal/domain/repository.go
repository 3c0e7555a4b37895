package domain

import "context"

// MemberRepository описывает требования к хранилищу участников.
type MemberRepository interface {
	// Create сохраняет участника и присваивает ему ID.
	// Возвращает ErrDuplicateEmail/ErrDuplicateUsername при нарушении уникальности.
	Create(ctx context.Context, member Member) (Member, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	// GetByID и GetByUsername возвращают ErrMemberNotFound, если записи нет.
	GetByID(ctx context.Context, id int64) (Member, error)
	GetByUsername(ctx context.Context, username string) (Member, error)
	Update(ctx context.Context, member Member) error
	Delete(ctx context.Context, id int64) error
}

// ProductRepository описывает хранилище каталога.
type ProductRepository interface {
	CreateCategory(ctx context.Context, name string) (Category, error)
	CategoryExists(ctx context.Context, id int64) (bool, error)
	Create(ctx context.Context, product Product) (Product, error)
	// Get возвращает ErrProductNotFound, если товара нет.
	Get(ctx context.Context, id int64) (Product, error)
	List(ctx context.Context, page Page, sort ProductSort) ([]Product, error)
	Update(ctx context.Context, product Product) error
	Delete(ctx context.Context, id int64) error
}

// CartRepository хранит позиции корзин.
type CartRepository interface {
	// Add добавляет товар в корзину; повторное добавление увеличивает количество.
	Add(ctx context.Context, memberID, productID int64, quantity int) (CartItem, error)
	ListByMember(ctx context.Context, memberID int64) ([]CartItem, error)
	// ClearByMember удаляет все позиции и возвращает их количество.
	ClearByMember(ctx context.Context, memberID int64) (int, error)
}

// OrderRepository описывает требования к хранилищу заказов.
type OrderRepository interface {
	// Create сохраняет новый заказ. Возвращает ошибку, если запись с таким ID уже существует.
	Create(ctx context.Context, order Order) error
	// Get возвращает заказ по идентификатору или ErrOrderNotFound, если его нет.
	Get(ctx context.Context, id string) (Order, error)
	// ListByMember возвращает заказы участника, новые первыми; limit<=0 - без ограничения.
	ListByMember(ctx context.Context, memberID int64, limit int) ([]Order, error)
}

// OutboxRepository позволяет сохранять события для последующей публикации.
type OutboxRepository interface {
	Enqueue(ctx context.Context, msg OutboxMessage) (OutboxMessage, error)
	PullPending(ctx context.Context, limit int) ([]OutboxMessage, error)
	Stats(ctx context.Context) (OutboxStats, error)
	MarkSent(ctx context.Context, id string) error
	MarkFailed(ctx context.Context, id string) error
}

// OutboxPublisher публикует события из outbox.
type OutboxPublisher interface {
	// Publish передаёт событие наружу; должен быть идемпотентным.
	Publish(ctx context.Context, event OutboxMessage) error
}
