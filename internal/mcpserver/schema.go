package mcpserver

// MetricsSchema documents the daily metrics shape for MCP clients. It is
// exposed through the dagaz://metrics-schema resource.
const MetricsSchema = `# Daily Metrics Schema

One row per calendar date (YYYY-MM-DD), extracted from the day's Markdown
note by the extraction oracle. Fields of type "number or null" are null when
the note never mentions the underlying activity; count fields default to 0
instead.

## Fields

- date (string, primary key) - calendar date in YYYY-MM-DD form.
- start_time (string or null) - when the working day started, e.g. "08:30".
- work_hours (number) - hours of focused work; 0 when not recorded.
- total_hours (number) - total tracked hours; 0 when not recorded.
- procrastination_minutes (integer) - explicitly stated minutes only; 0 when
  not recorded.
- dispersion_minutes (integer) - explicitly stated minutes only; 0 when not
  recorded.
- mindfulness_moments (integer) - count of distinct mindfulness mentions;
  0 when not recorded.
- meditation_time (number or null) - minutes of meditation.
- meditation_quality (number or null) - 1-5 scale.
- meditation_comment (string or null) - free-text remark on meditation.
- sleep_quality (number or null) - 1-5 scale (notes using /10 are halved).
- sleep_comment (string or null) - free-text remark on sleep.
- mood_score (number or null) - 1-5 scale.
- mood_sentiment (string) - one-word sentiment; "" when not recorded.
- mood_comment (string or null) - free-text remark on mood.
- textual_info (object) - free-form keys such as most_important_task, wins,
  blockers, summary, radioactive_tasks; {} when nothing applies.
- raw_ai_output (string) - the oracle's verbatim response for audit.
- is_workday (boolean) - false only when the note explicitly says so.
- note_checksum (string) - SHA-256 of the note content at extraction time.

## Procrastination events

Events extracted from the aggregate record document share
source = "Procrastination Record" and are replaced together on re-import:

- date (string, "UNKNOWN" when the document omits it)
- time (string or null)
- type ("Procrastination" or "Dispersion")
- duration_minutes (number)
- activity, trigger, feeling, action_taken (strings, "" when absent)
`
