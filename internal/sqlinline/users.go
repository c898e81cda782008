package sqlinline

const QInsertUser = `--sql 3f1c9a4e-8d21-4b7a-9f0e-6a5d2c8b1e47
insert into users (id, email, password_hash, firstname, lastname, created_at, updated_at)
values ($1, $2, $3, $4, $5, now(), now())
returning id, email, password_hash, firstname, lastname, coalesce(billing_customer_id, ''), created_at, updated_at;
`

const QSelectUserByEmail = `--sql 7b2e5d90-1a3c-4f68-b4d7-0c9e8a2f5613
select id, email, password_hash, firstname, lastname, coalesce(billing_customer_id, ''), created_at, updated_at
from users
where email = $1;
`

const QSelectUserByID = `--sql c4a81f27-6e0b-49d3-8c52-b7f3d1e09a84
select id, email, password_hash, firstname, lastname, coalesce(billing_customer_id, ''), created_at, updated_at
from users
where id = $1;
`

const QSelectUserByBillingCustomer = `--sql 95d3b6c8-2f74-4a1e-9b08-e61c7a4f0d25
select id, email, password_hash, firstname, lastname, coalesce(billing_customer_id, ''), created_at, updated_at
from users
where billing_customer_id = $1;
`

const QUpdateUserProfile = `--sql 1e8f4a62-9c05-4d3b-a7f1-58b2e6c90d37
update users
set firstname = coalesce($2, firstname),
    lastname = coalesce($3, lastname),
    updated_at = now()
where id = $1
returning id, email, password_hash, firstname, lastname, coalesce(billing_customer_id, ''), created_at, updated_at;
`

const QUpdateUserPassword = `--sql 6a0d2e85-3b47-4c91-8f6e-d45a1b7c3092
update users
set password_hash = $2,
    updated_at = now()
where id = $1;
`

const QSetBillingCustomerID = `--sql b8c5f013-7d2a-4e69-91b4-3f0e6d8a2c51
update users
set billing_customer_id = $2,
    updated_at = now()
where id = $1;
`
