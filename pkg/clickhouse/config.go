package clickhouse

import "time"

// Config holds ClickHouse connection settings.
type Config struct {
	Host         string
	Port         int
	Database     string
	Username     string
	Password     string
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	MaxOpenConns int
	MaxIdleConns int
}

// Option configures a Client.
type Option func(*Config)

// WithHost sets the server host.
func WithHost(host string) Option {
	return func(c *Config) {
		c.Host = host
	}
}

// WithPort sets the native protocol port.
func WithPort(port int) Option {
	return func(c *Config) {
		c.Port = port
	}
}

// WithDatabase sets the database name.
func WithDatabase(db string) Option {
	return func(c *Config) {
		c.Database = db
	}
}

// WithCredentials sets the username and password.
func WithCredentials(username, password string) Option {
	return func(c *Config) {
		c.Username = username
		c.Password = password
	}
}

// WithDialTimeout sets the dial timeout.
func WithDialTimeout(d time.Duration) Option {
	return func(c *Config) {
		c.DialTimeout = d
	}
}

// WithReadTimeout sets the read timeout.
func WithReadTimeout(d time.Duration) Option {
	return func(c *Config) {
		c.ReadTimeout = d
	}
}

// WithPoolSize sets the connection pool limits.
func WithPoolSize(open, idle int) Option {
	return func(c *Config) {
		c.MaxOpenConns = open
		c.MaxIdleConns = idle
	}
}
