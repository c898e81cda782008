package sqlinline

// QIssueCode purges every unconsumed code for the (email, kind) pair and writes
// the replacement inside a single statement, so the at-most-one-active invariant
// holds without a client-side transaction.
const QIssueCode = `--sql d27e9b40-5c18-4f36-a92d-e80b4c6f1a73
with purged as (
    delete from one_time_codes
    where email = $2 and kind = $4 and not consumed
)
insert into one_time_codes (id, email, code, kind, country, expires_at, consumed, created_at)
values ($1, $2, $3, $4, $5, $6, false, now())
returning id, created_at;
`

// QConsumeCode marks the newest unconsumed match in one conditional update.
// Two concurrent submissions of the same code race on the "not consumed" guard
// and only one of them gets a row back.
const QConsumeCode = `--sql 4b6d1f82-0e93-4a57-bc24-79f5e3a8d016
update one_time_codes
set consumed = true
where id = (
    select id from one_time_codes
    where email = $1 and code = $2 and kind = $3 and not consumed
    order by created_at desc
    limit 1
)
and not consumed
returning id, email, code, kind, coalesce(country, ''), expires_at, consumed, created_at;
`

const QPurgeExpiredCodes = `--sql 82c4a7d5-1b60-4e29-9d83-f57b0c2e6a41
delete from one_time_codes
where consumed or expires_at < now();
`
