package sqlinline

// The conflict target on payment_id is the idempotency mechanism for the
// ledger: retried gateway callbacks insert nothing and the caller re-reads
// the existing row.
const QInsertContributionIfAbsent = `--sql 5a94d7e2-6c31-4b8f-9d05-e87f2a6c4b10
insert into contributions (id, recipient_username, payer_name, message, amount, currency, order_id, payment_id, country, created_at)
values (gen_random_uuid(), $1::text, $2::text, $3::text, $4::bigint, $5::text, $6::text, $7::text, $8::text, now())
on conflict (payment_id) do nothing
returning id, recipient_username, payer_name, message, amount, currency, order_id, payment_id, country, created_at;
`

const QSelectContributionByPaymentID = `--sql 82c5f0a9-3e17-4d64-b2c8-9f41d6a3e705
select id, recipient_username, payer_name, message, amount, currency, order_id, payment_id, country, created_at
from contributions
where payment_id = $1::text
limit 1;
`

const QListContributionsByRecipient = `--sql 1c68e4b7-9a02-4f53-8e6d-2d79b0c5f8a4
select id, recipient_username, payer_name, message, amount, currency, order_id, payment_id, country, created_at
from contributions
where recipient_username = $1::text
order by created_at desc
limit $2::int;
`

const QSumContributionsByRecipient = `--sql 4b07a2d8-5f96-4c21-ae3b-68d1c9e05f72
select coalesce(sum(amount), 0)
from contributions
where recipient_username = $1::text;
`
