package sqlinline

const QSelectSubscriptionByUser = `--sql e93b5c17-4a28-4d60-bf59-216e8d0a7c34
select user_id, coalesce(customer_id, ''), coalesce(subscription_id, ''), coalesce(price_id, ''),
       plan_type, status, storage_limit, storage_used, current_period_end, cancel_at_period_end,
       created_at, updated_at
from subscriptions
where user_id = $1;
`

// QEnsureDefaultSubscription lazily creates the free-tier row. The conflict
// branch touches nothing so an existing subscription is returned as-is.
const QEnsureDefaultSubscription = `--sql 0a7f3e58-6d12-4b94-8c3a-5e90b1d4f267
insert into subscriptions (user_id, plan_type, status, storage_limit, storage_used, cancel_at_period_end, created_at, updated_at)
values ($1, $2, $3, $4, 0, false, now(), now())
on conflict (user_id) do update set updated_at = subscriptions.updated_at
returning user_id, coalesce(customer_id, ''), coalesce(subscription_id, ''), coalesce(price_id, ''),
          plan_type, status, storage_limit, storage_used, current_period_end, cancel_at_period_end,
          created_at, updated_at;
`

const QUpsertSubscription = `--sql f51a8d29-3c64-4e07-92b8-d0c7e6a15f83
insert into subscriptions (user_id, customer_id, subscription_id, price_id, plan_type, status,
                           storage_limit, storage_used, current_period_end, cancel_at_period_end,
                           created_at, updated_at)
values ($1, $2, $3, $4, $5, $6, $7, 0, $8, $9, now(), now())
on conflict (user_id) do update set
    customer_id = excluded.customer_id,
    subscription_id = excluded.subscription_id,
    price_id = excluded.price_id,
    plan_type = excluded.plan_type,
    status = excluded.status,
    storage_limit = excluded.storage_limit,
    current_period_end = excluded.current_period_end,
    cancel_at_period_end = excluded.cancel_at_period_end,
    updated_at = now();
`

const QSetSubscriptionStatusByCustomer = `--sql 2d90c6b4-7e35-4a18-bd62-48f1a0e5c397
update subscriptions
set status = $2,
    updated_at = now()
where customer_id = $1;
`
