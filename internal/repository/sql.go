package repository

const SchemaSQL = `
CREATE TABLE IF NOT EXISTS products (
    id          BIGSERIAL PRIMARY KEY,
    name        TEXT NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    image       TEXT NOT NULL DEFAULT '',
    price       NUMERIC(12,2) NOT NULL CHECK (price >= 0)
);

CREATE TABLE IF NOT EXISTS product_variants (
    id               BIGSERIAL PRIMARY KEY,
    product_id       BIGINT NOT NULL REFERENCES products (id) ON DELETE CASCADE,
    name             TEXT NOT NULL,
    additional_price NUMERIC(12,2) NOT NULL DEFAULT 0 CHECK (additional_price >= 0)
);

CREATE TABLE IF NOT EXISTS carts (
    id         BIGSERIAL PRIMARY KEY,
    owner_kind TEXT NOT NULL,
    owner_id   TEXT NOT NULL,
    UNIQUE (owner_kind, owner_id)
);

CREATE TABLE IF NOT EXISTS cart_items (
    id         BIGSERIAL PRIMARY KEY,
    cart_id    BIGINT NOT NULL REFERENCES carts (id) ON DELETE CASCADE,
    product_id BIGINT NOT NULL REFERENCES products (id),
    variant_id BIGINT NOT NULL DEFAULT 0,
    quantity   BIGINT NOT NULL CHECK (quantity >= 1),
    price      NUMERIC(12,2) NOT NULL,
    UNIQUE (cart_id, product_id, variant_id)
);

CREATE TABLE IF NOT EXISTS discount_codes (
    code    TEXT PRIMARY KEY,
    percent BIGINT NOT NULL CHECK (percent >= 0 AND percent <= 100)
);

CREATE TABLE IF NOT EXISTS orders (
    id             BIGSERIAL PRIMARY KEY,
    owner_kind     TEXT NOT NULL,
    owner_id       TEXT NOT NULL,
    name           TEXT NOT NULL,
    email          TEXT NOT NULL DEFAULT '',
    phone          TEXT NOT NULL DEFAULT '',
    address        TEXT NOT NULL DEFAULT '',
    city           TEXT NOT NULL DEFAULT '',
    postal_code    TEXT NOT NULL DEFAULT '',
    country        TEXT NOT NULL DEFAULT '',
    payment_method TEXT NOT NULL DEFAULT 'cod',
    discount_code  TEXT NOT NULL DEFAULT '',
    points_used    BIGINT NOT NULL DEFAULT 0,
    total          NUMERIC(12,2) NOT NULL,
    status         TEXT NOT NULL DEFAULT 'pending',
    created_at     TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS order_items (
    id         BIGSERIAL PRIMARY KEY,
    order_id   BIGINT NOT NULL REFERENCES orders (id) ON DELETE CASCADE,
    product_id BIGINT NOT NULL,
    variant_id BIGINT NOT NULL DEFAULT 0,
    quantity   BIGINT NOT NULL,
    price      NUMERIC(12,2) NOT NULL
);

CREATE TABLE IF NOT EXISTS cart_events (
    id         BIGSERIAL PRIMARY KEY,
    key        TEXT NOT NULL,
    message    TEXT NOT NULL,
    done       BOOLEAN NOT NULL DEFAULT FALSE,
    created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
`

const (
	CreateCartIfNotExistsInsertSQL = `
    INSERT INTO carts (owner_kind, owner_id)
    VALUES ($1, $2)
    ON CONFLICT (owner_kind, owner_id) DO NOTHING;
`
	CreateCartIfNotExistsSelectSQL = `
    SELECT id
    FROM carts
    WHERE owner_kind = $1 AND owner_id = $2
    LIMIT 1;
`
	FindCartSQL = `
    SELECT id
    FROM carts
    WHERE owner_kind = $1 AND owner_id = $2
    LIMIT 1;
`

	GetCartItemsSQL = `
    SELECT ci.id,
           ci.product_id,
           ci.variant_id,
           ci.quantity,
           ci.price,
           p.name AS product_name,
           COALESCE(v.name, '') AS variant_name,
           p.image
    FROM cart_items ci
    JOIN products p ON p.id = ci.product_id
    LEFT JOIN product_variants v ON v.id = ci.variant_id
    WHERE ci.cart_id = $1
    ORDER BY ci.id
`

	AddItemToCartSQL = `
    INSERT INTO cart_items (cart_id, product_id, variant_id, quantity, price)
    SELECT $1, p.id, $3, $4, p.price + COALESCE(v.additional_price, 0)
    FROM products p
    LEFT JOIN product_variants v ON v.id = $3 AND v.product_id = p.id
    WHERE p.id = $2
    ON CONFLICT (cart_id, product_id, variant_id)
    DO UPDATE SET quantity = cart_items.quantity + EXCLUDED.quantity
`

	UpdateItemQuantitySQL = `
    UPDATE cart_items
    SET quantity = $3
    WHERE id = $1 AND cart_id = $2
`

	RemoveItemSQL = `
    DELETE FROM cart_items
    WHERE id = $1 AND cart_id = $2
`

	ClearCartSQL = `
    DELETE FROM cart_items
    WHERE cart_id = $1
`

	MergeCartItemsSQL = `
    INSERT INTO cart_items (cart_id, product_id, variant_id, quantity, price)
    SELECT $2, product_id, variant_id, quantity, price
    FROM cart_items
    WHERE cart_id = $1
    ON CONFLICT (cart_id, product_id, variant_id)
    DO UPDATE SET quantity = cart_items.quantity + EXCLUDED.quantity
`

	DeleteCartSQL = `
    DELETE FROM carts
    WHERE id = $1
`

	VerifyDiscountCodeSQL = `
    SELECT percent
    FROM discount_codes
    WHERE code = $1
`

	InsertOrderSQL = `
    INSERT INTO orders (owner_kind, owner_id, name, email, phone, address, city,
                        postal_code, country, payment_method, discount_code,
                        points_used, total)
    VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
    RETURNING id, status
`

	InsertOrderItemSQL = `
    INSERT INTO order_items (order_id, product_id, variant_id, quantity, price)
    VALUES ($1, $2, $3, $4, $5)
`

	InsertEventSQL = `
    INSERT INTO cart_events (key, message)
    VALUES ($1, $2)
`

	GetNextEventSQL = `
    SELECT id, key, message
    FROM cart_events
    WHERE done = FALSE
    ORDER BY id
    LIMIT 1
`

	SetEventDoneSQL = `
    UPDATE cart_events
    SET done = TRUE
    WHERE id = $1
`
)
