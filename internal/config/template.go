package config

// Template is the annotated settings file written by `twcfg config init`.
// It loads to the same values as Default.
const Template = `# twcfg settings
# Environment variables in the form ${VAR_NAME} are expanded when loading.

descriptor:
  # Stylesheet descriptor (.yaml, .yml, .toml or .json)
  path: tailwind.config.yaml
  # Reload the descriptor when the file changes while serving
  watch: true

server:
  listen: "127.0.0.1:8787"
  timeout_ms: 30000
  max_body_bytes: 1048576
  # Per-client requests per minute (0 = unlimited)
  rate_limit_rpm: 0
  # Page writes per second across all clients (0 = unlimited)
  write_limit_rps: 0
  enable_http2: false
  auth:
    # Require x-api-key on page writes
    api_key: ""
    # Or basic auth; generate the hash with: twcfg hash-password
    username: ""
    password_hash: ""

storage:
  # sqlite database file (":memory:" for an ephemeral store)
  path: twcfg.db
  busy_timeout_ms: 5000

cache:
  # single (in-memory) or disabled
  mode: single
  ttl_ms: 0
  ristretto:
    num_counters: 100000
    max_cost: 67108864
    buffer_items: 64

logging:
  level: info
  format: json
  output: stdout
  pretty: false
`
