package influxdb

// Option configures the influxdb exporter
type Option func(*Exporter)

// WithStore sets the backend store written to by the exporter
func WithStore(store Store) Option {
	return func(e *Exporter) {
		if store != nil {
			e.store = store
		}
	}
}

// WithErrorHandler sets a handler called on write failures. The
// default swallows errors: metrics are best effort.
func WithErrorHandler(handler func(error)) Option {
	return func(e *Exporter) {
		if handler != nil {
			e.errorHandler = handler
		}
	}
}

// WithTags sets custom tags added to every written record
func WithTags(tags map[string]string) Option {
	return func(e *Exporter) {
		e.customTags = tags
	}
}

// StoreOption configures the influxdb store
type StoreOption func(*influxDB)

// WithDatabase sets the target database
func WithDatabase(db string) StoreOption {
	return func(s *influxDB) {
		if db != "" {
			s.database = db
		}
	}
}

// WithAddr sets the influxdb server address
func WithAddr(addr string) StoreOption {
	return func(s *influxDB) {
		if addr != "" {
			s.config.Addr = addr
		}
	}
}

// WithCredentials sets the influxdb credentials
func WithCredentials(user, pass string) StoreOption {
	return func(s *influxDB) {
		s.config.Username = user
		s.config.Password = pass
	}
}

// WithNameAsTag folds all measurements into a single time series,
// keeping the measurement name as a tag
func WithNameAsTag(series string) StoreOption {
	return func(s *influxDB) {
		if series == "" {
			return
		}
		s.mapper = func(measurement string, tags map[string]string) (string, map[string]string) {
			if tags == nil {
				tags = make(map[string]string, 1)
			}
			tags["metric"] = measurement
			return series, tags
		}
	}
}
