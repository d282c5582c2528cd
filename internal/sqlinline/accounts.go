package sqlinline

const QUpsertAccountOnLogin = `--sql 3f6c1d2a-8b4e-47a1-9c85-5e2d7a90f314
insert into accounts (id, email, name, username, avatar_url, provider, provider_subject, created_at, updated_at)
values (gen_random_uuid(), $1::text, $2::text, $3::text, $4::text, $5::text, $6::text, now(), now())
on conflict (email) do update set
    name = coalesce(nullif(accounts.name, ''), excluded.name),
    avatar_url = coalesce(nullif(accounts.avatar_url, ''), excluded.avatar_url),
    provider = excluded.provider,
    provider_subject = excluded.provider_subject,
    updated_at = now()
returning id, email, name, username, avatar_url, cover_url, project, project_link, project_description,
          razorpay_key_id, razorpay_key_secret, provider, provider_subject, created_at, updated_at;
`

const QSelectAccountByID = `--sql 9a4e61d0-7b3f-4c28-8f5a-01d6b9e2c7f3
select id, email, name, username, avatar_url, cover_url, project, project_link, project_description,
       razorpay_key_id, razorpay_key_secret, provider, provider_subject, created_at, updated_at
from accounts
where id = $1::uuid
limit 1;
`

const QSelectAccountByEmail = `--sql b0e7c9d4-1f52-4a6b-8d3e-74a5c2f8e901
select id, email, name, username, avatar_url, cover_url, project, project_link, project_description,
       razorpay_key_id, razorpay_key_secret, provider, provider_subject, created_at, updated_at
from accounts
where email = $1::text
limit 1;
`

const QSelectAccountByUsername = `--sql 7d28a5f3-c4b6-4e90-a1d7-3b8f62c0e54a
select id, email, name, username, avatar_url, cover_url, project, project_link, project_description,
       razorpay_key_id, razorpay_key_secret, provider, provider_subject, created_at, updated_at
from accounts
where username = $1::text
limit 1;
`

const QUpdateAccountProfile = `--sql e91f3b60-2d7c-48a5-b4e8-c6a0d5f19273
update accounts set
    name = $2::text,
    username = $3::text,
    avatar_url = $4::text,
    cover_url = $5::text,
    project = $6::text,
    project_link = $7::text,
    project_description = $8::text,
    razorpay_key_id = $9::text,
    razorpay_key_secret = $10::text,
    updated_at = now()
where id = $1::uuid
returning id, email, name, username, avatar_url, cover_url, project, project_link, project_description,
          razorpay_key_id, razorpay_key_secret, provider, provider_subject, created_at, updated_at;
`
