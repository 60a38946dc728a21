package config

import (
	"io/fs"
	"time"
)

// -----------------------------------------------------------------------------
// Build Information
// -----------------------------------------------------------------------------

// Build variables are injected via -ldflags.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// UserAgent identifies the HTTP client.
var UserAgent = "Go-Patro/" + Version

// -----------------------------------------------------------------------------
// Application Constants
// -----------------------------------------------------------------------------

const (
	AppName           = "Go Patro"
	AppID             = "com.github.tartampluch.go-patro"
	KeyringService    = "com.github.tartampluch.go-patro"
	LocalhostBindAddr = "127.0.0.1"
	LogFileName       = "app.log"
	ConfigFileName    = ".go-patro"
	ConfigFileType    = "yaml"
	EnvPrefix         = "GOPATRO"
)

// -----------------------------------------------------------------------------
// Exit Codes
// -----------------------------------------------------------------------------

const (
	ExitCodeSuccess = 0
	ExitCodeError   = 1
)

// -----------------------------------------------------------------------------
// System & File Permissions
// -----------------------------------------------------------------------------

const (
	// FilePermUserRW represents -rw------- (Read/Write for owner only).
	// Used for logs and generated feeds.
	FilePermUserRW fs.FileMode = 0600

	// DirPermUserRWX represents drwx------ (Read/Write/Exec for owner only).
	DirPermUserRWX fs.FileMode = 0700

	// ChannelBufferSize defines the standard buffer size for internal signaling channels.
	ChannelBufferSize = 1
)

// -----------------------------------------------------------------------------
// CLI Commands, Flags & Descriptions
// -----------------------------------------------------------------------------

const (
	FlagVersion  = "version"
	FlagDebug    = "debug"
	FlagConfig   = "config"
	FlagLocale   = "locale"
	FlagOutput   = "output"
	FlagSpan     = "span"
	FlagPort     = "port"
	FlagSource   = "source"
	FlagPath     = "path"
	FlagURL      = "url"
	FlagUser     = "user"
	FlagReminder = "reminder"

	FlagDescVersion  = "Show application version and exit"
	FlagDescDebug    = "Enable debug logging"
	FlagDescConfig   = "Config file (default is $HOME/.go-patro.yaml)"
	FlagDescLocale   = "Output language (en, ne)"
	FlagDescOutput   = "Write the feed to this file instead of stdout"
	FlagDescSpan     = "Number of BS years before and after the current one"
	FlagDescPort     = "Port of the local HTTP server"
	FlagDescSource   = "Birthday source (local, web)"
	FlagDescPath     = "Path to a local .vcf file"
	FlagDescURL      = "CardDAV or WebDAV URL of the address book"
	FlagDescUser     = "User name for the address book (password is read from the keyring)"
	FlagDescReminder = "ISO8601 alarm trigger for birthday events (e.g. -P1D)"

	MsgVersionOutput = "%s version %s (commit %s, built %s, %s/%s)\n"

	CmdUse       = "go-patro"
	CmdShort     = "Bikram Sambat (Nepali) calendar converter"
	CmdLong      = "go-patro converts dates between the Gregorian and the Bikram Sambat calendars,\nprints month views and holidays, and serves them as iCalendar feeds."
	CmdToday     = "today"
	CmdConvert   = "convert"
	CmdMonth     = "month"
	CmdHolidays  = "holidays"
	CmdFeed      = "feed"
	CmdBirthdays = "birthdays"
	CmdServe     = "serve"
	CmdPassword  = "password"

	CmdTodayShort     = "Print today's Bikram Sambat date"
	CmdConvertUse     = "convert (ad|bs) YYYY-MM-DD"
	CmdConvertShort   = "Convert a date between AD and BS"
	CmdMonthUse       = "month [year month]"
	CmdMonthShort     = "Print a BS month view"
	CmdHolidaysUse    = "holidays [year month]"
	CmdHolidaysShort  = "List the holidays of a BS month"
	CmdFeedShort      = "Write the holiday iCalendar feed"
	CmdBirthdaysShort = "List contacts with their Bikram Sambat birthdays"
	CmdServeShort     = "Serve iCalendar feeds and the JSON API"
	CmdPasswordShort  = "Store the address book password (read from stdin) in the OS keyring"

	ArgAD = "ad"
	ArgBS = "bs"
)

// -----------------------------------------------------------------------------
// Settings Keys (viper)
// -----------------------------------------------------------------------------

const (
	KeyLocale          = "locale"
	KeyServerPort      = "server.port"
	KeyFeedSpan        = "feed.span_years"
	KeyRefreshInterval = "sync.refresh_interval"
	KeySourceMode      = "sync.mode"
	KeyLocalPath       = "sync.local_path"
	KeyWebURL          = "sync.web_url"
	KeyWebUser         = "sync.web_user"
	KeyReminder        = "sync.reminder"
)

// -----------------------------------------------------------------------------
// Translation Keys (I18n)
// -----------------------------------------------------------------------------

const (
	TKeyAppTitle         = "app_title"
	TKeyToday            = "today_line"         // Requires Date, Weekday
	TKeyConvertToBS      = "convert_to_bs"      // Requires From, To
	TKeyConvertToAD      = "convert_to_ad"      // Requires From, To, Weekday
	TKeyHolidayCount     = "holiday_count"      // Plural, Requires Count, Month
	TKeyNoHolidays       = "holidays_none"      // Requires Month
	TKeyHolidayLine      = "holiday_line"       // Requires Date, Name
	TKeyLegendToday      = "legend_today"       // Requires Date
	TKeyFeedName         = "feed_name"          // Calendar display name
	TKeyFeedBirthdays    = "feed_birthdays"     // Calendar display name
	TKeyEvtSummary       = "event_summary"      // Requires Name
	TKeyEvtSummaryAge    = "event_summary_age"  // Requires Name, Age
	TKeyEvtSummaryBirth  = "event_summary_birth" // Requires Name (For age 0)
	TKeyEvtDescription   = "event_description"  // Requires Date
	TKeyContactLine      = "contact_line"       // Requires Name, Birth, Next, Age
	TKeyContactsNone     = "contacts_none"
	TKeyErrInvalidDate   = "err_invalid_date"   // Requires Date
	TKeyServerListening  = "server_listening"   // Requires URL
)

// -----------------------------------------------------------------------------
// Default Values & Business Logic
// -----------------------------------------------------------------------------

const (
	SourceModeWeb      = "web"
	SourceModeLocal    = "local"
	DefaultPort        = "18081"
	DefaultRefreshMin  = 60
	DefaultLanguage    = "en"
	DefaultFeedSpan    = 1
	MaxFeedSpan        = 10
	UIDSalt            = "go-patro-v1-" // Salt for deterministic UID generation
	LocalesDir         = "locales"
	LocaleFilePrefix   = "active."
	LocaleFileSuffix   = ".json"
	LocaleFormatJSON   = "json"
	TemplateKeyCount   = "Count"
	TemplateKeyName    = "Name"
	TemplateKeyAge     = "Age"
	TemplateKeyDate    = "Date"
	TemplateKeyFrom    = "From"
	TemplateKeyTo      = "To"
	TemplateKeyMonth   = "Month"
	TemplateKeyWeekday = "Weekday"
	TemplateKeyBirth   = "Birth"
	TemplateKeyNext    = "Next"
	TemplateKeyURL     = "URL"
)

// SupportedLanguages defines the list of available output languages (ISO 639-1).
var SupportedLanguages = []string{"en", "ne"}

// -----------------------------------------------------------------------------
// Standards: iCalendar & vCard
// -----------------------------------------------------------------------------

const (
	// iCal Properties
	ICalVersion   = "2.0"
	ICalProdid    = "-//Go Patro//Engine//EN"
	ICalMethod    = "PUBLISH"
	ICalScale     = "GREGORIAN"
	ICalComponent = "VALARM"
	ICalAction    = "DISPLAY"
	ICalDomain    = "gopatro"
	ICalTransp    = "TRANSPARENT"

	// iCal/vCard Fields
	PropUID         = "UID"
	PropSummary     = "SUMMARY"
	PropDTStart     = "DTSTART"
	PropDTStamp     = "DTSTAMP"
	PropRefresh     = "REFRESH-INTERVAL"
	PropAction      = "ACTION"
	PropDescription = "DESCRIPTION"
	PropTrigger     = "TRIGGER"
	PropVersion     = "VERSION"
	PropProdid      = "PRODID"
	PropXWRCalName  = "X-WR-CALNAME"
	PropCalScale    = "CALSCALE"
	PropMethod      = "METHOD"
	PropTransp      = "TRANSP"
	PropCategories  = "CATEGORIES"

	CategoryHoliday  = "HOLIDAY"
	CategoryBirthday = "BIRTHDAY"

	VCardBDAY = "BDAY"
	VCardFN   = "FN"
	VCardN    = "N"

	DefaultICalRefresh = 24 * time.Hour
)

// -----------------------------------------------------------------------------
// Data Formats & Limits
// -----------------------------------------------------------------------------

const (
	// Date layouts used for parsing vCard BDAY fields
	DateFormatFullDash  = "2006-01-02"
	DateFormatFullBasic = "20060102"
	DateFormatRFC3339   = time.RFC3339
	DateFormatFullT     = "2006-01-02T15:04:05Z"
	DateFormatNoYearD   = "--01-02"
	DateFormatNoYearB   = "--0102"

	// FormatISODate renders a BS date as YYYY-MM-DD.
	FormatISODate = "%04d-%02d-%02d"

	// FormatNepaliDate renders "{day} {month name} {year}".
	FormatNepaliDate = "%d %s %d"

	// Limits
	MinPort = 1
	MaxPort = 65535

	// UID Generation
	UIDHashLength   = 16
	FormatHashInput = "%s|%s|%s"
	FormatUID       = "%s-%d@%s"
	FormatHolidayID = "holiday-%s@%s"
)

// -----------------------------------------------------------------------------
// Network & Timeouts
// -----------------------------------------------------------------------------

const (
	HTTPTimeout         = 30 * time.Second
	ShutdownTimeout     = 5 * time.Second
	ServerReadTimeout   = 10 * time.Second
	ServerWriteTimeout  = 30 * time.Second
	ServerIdleTimeout   = 60 * time.Second
	RetryAfterSeconds   = "10"
	AllowedMethods      = "GET, HEAD"
	MaxHTTPResponseSize = 256 * 1024 * 1024 // 256MB
	SchemeHTTP          = "http"
	SchemeHTTPS         = "https"
	AddrSeparator       = ":"

	RouteHolidaysFeed  = "/holidays.ics"
	RouteBirthdaysFeed = "/birthdays.ics"
	RouteAPIToday      = "/api/today"
	RouteAPIConvert    = "/api/convert"
	RouteAPIMonth      = "/api/month"
	RouteAPIHolidays   = "/api/holidays"
	RouteAPIBirthdays  = "/api/birthdays"

	QueryAD     = "ad"
	QueryBS     = "bs"
	QueryYear   = "year"
	QueryMonth  = "month"
	QueryLocale = "locale"
	QueryExport = "export" // CardDAV collection export (SabreDAV, Nextcloud)
)

// -----------------------------------------------------------------------------
// HTTP Headers & MIME Types
// -----------------------------------------------------------------------------

const (
	HeaderContentType     = "Content-Type"
	HeaderCacheControl    = "Cache-Control"
	HeaderETag            = "ETag"
	HeaderLastModified    = "Last-Modified"
	HeaderRetryAfter      = "Retry-After"
	HeaderAllow           = "Allow"
	HeaderXContentType    = "X-Content-Type-Options"
	HeaderUserAgent       = "User-Agent"
	HeaderAccept          = "Accept"
	HeaderAcceptLanguage  = "Accept-Language"
	HeaderIfNoneMatch     = "If-None-Match"
	HeaderIfModifiedSince = "If-Modified-Since"

	MimeTextCalendar    = "text/calendar; charset=utf-8"
	MimeJSON            = "application/json; charset=utf-8"
	MimeVCard           = "text/vcard, text/x-vcard;q=0.9, */*;q=0.1"
	MimeNoSniff         = "nosniff"
	CacheControlPrivate = "private, no-cache"

	// FormatETag expects a string argument.
	FormatETag = `"%s"`
)

// -----------------------------------------------------------------------------
// Error Messages (Technical/Logs)
// -----------------------------------------------------------------------------

const (
	ErrLocalPathEmpty  = "configuration error: local path is empty"
	ErrWebURLEmpty     = "configuration error: web URL is empty"
	ErrFetcherMissing  = "internal error: network fetcher is not initialized"
	ErrConverterNil    = "internal error: calendar converter is not initialized"
	ErrModeUnsupport   = "configuration error: unsupported source mode"
	ErrServerStartup   = "server startup failed"
	ErrServerShutdown  = "server shutdown failed"
	ErrPortRequired    = "server port is required"
	ErrInvalidURL      = "invalid URL structure"
	ErrProtocol        = "unsupported protocol scheme (http/https only)"
	ErrRequestBuild    = "failed to create request"
	ErrFetchNetwork    = "network error during fetch"
	ErrFetchStatus     = "address book server returned unexpected status"
	ErrFetchTooLarge   = "address book exceeds the download size limit"
	ErrVCardParse      = "failed to parse vCard stream"
	ErrICalEncode      = "failed to encode iCalendar data"
	ErrDateParse       = "unable to parse date"
	ErrLogFile         = "failed to open log file"
	ErrCacheDir        = "could not determine user cache dir"
	ErrCreateDir       = "could not create app cache dir"
	ErrAppFailed       = "application failed unexpectedly"
	ErrWriteResp       = "failed to write response body"
	ErrLocalesAccess   = "failed to access embedded locales"
	ErrLocaleLoad      = "failed to load locale file"
	ErrConfigRead      = "failed to read config file"
	ErrConfigDecode    = "failed to decode settings"
	ErrConfigInvalid   = "invalid configuration"
	ErrHomeDir         = "could not determine home dir"
	ErrEngineInit      = "failed to initialize calendar engine"
	ErrFeedWrite       = "failed to write feed"
	ErrArgCount        = "expected exactly two arguments"
	ErrArgDirection    = "first argument must be 'ad' or 'bs'"
	ErrArgYearMonth    = "year and month must be integers"
	ErrQueryMissing    = "either the 'ad' or the 'bs' query parameter is required"
	ErrNotFound        = "not found"
	ErrUserRequired    = "sync.web_user must be set to store a password"
	ErrPasswordEmpty   = "password is empty"
	ErrEmptyTable      = "year table is empty"
	ErrMonthRange      = "month must be between 1 and 12"
	ErrYearRange       = "year is outside the supported range"
	ErrDayRange        = "day is outside the month"
	ErrMonthLength     = "month length outside the observed range"
	ErrInvalidAnchor   = "anchor date is not a valid BS date"
)

// -----------------------------------------------------------------------------
// HTTP Server Responses
// -----------------------------------------------------------------------------

const (
	HTTPMsgInitializing = "Calendar initializing, please try again shortly."
	HTTPMsgMethodNotAll = "Method Not Allowed"
)

// -----------------------------------------------------------------------------
// Fallbacks & Log Messages
// -----------------------------------------------------------------------------

const (
	FallbackSummaryAge   = "Birthday: %s (%d)"
	FallbackSummaryBirth = "Birthday: %s (birth)"
	FallbackName         = "Unknown"
	FallbackHolidayName  = "Nepali Holidays"
	FallbackBirthdayName = "Nepali Birthdays"
	FallbackDescription  = "%s BS"

	// StubVCalendar is the minimal valid iCalendar object used when no events are found.
	StubVCalendar = "BEGIN:VCALENDAR\r\nVERSION:2.0\r\nPRODID:" + ICalProdid + "\r\nEND:VCALENDAR\r\n"

	MsgSyncStarted    = "Synchronization started..."
	MsgSyncFailed     = "Synchronization failed. Check logs."
	MsgFeedFailed     = "Holiday feed generation failed"
	MsgWorkerStart    = "Background worker started"
	MsgWorkerStop     = "Worker stopping due to context cancellation"
	MsgRefresh        = "Refreshing feeds"
	MsgAppStop        = "Application stopped gracefully"
	MsgSkippedCard    = "Skipping malformed vCard"
	MsgSkippedDate    = "Skipping invalid date format"
	MsgSkippedNoYear  = "Skipping birthday without year"
	MsgGenSuccess     = "Calendar generation successful"
	MsgHolidayFeed    = "Holiday feed generated"
	MsgAppStarting    = "Starting application"
	MsgServerListen   = "HTTP server listening"
	MsgServerStop     = "Shutting down HTTP server..."
	MsgCacheUpdated   = "Calendar cache updated"
	MsgLocaleSkip     = "Skipping non-locale file"
	MsgLocaleBadName  = "Skipping malformed locale filename"
	MsgLocaleLoaded   = "Locale loaded successfully"
	MsgTransMissing   = "Missing translation key"
	MsgPassFail       = "Password retrieval failed (might be empty)"
	MsgLogWarning     = "Warning: %s at %s: %v\n"
	MsgBdayToday      = "Birthday found today"
	MsgTableAnomaly   = "Tabulated year length is neither 365 nor 366 days"
	MsgEngineReady    = "Calendar engine ready"
	MsgConfigLoaded   = "Configuration loaded"
	MsgConfigMissing  = "No config file found, using defaults"
	MsgAPIBadRequest  = "Rejected API request"
	MsgPasswordStored = "Password stored in keyring"
	MsgFeedWritten    = "Feed written"
	MsgFetchStart     = "Requesting address book"
	MsgFetchRejected  = "Address book request rejected"
	MsgFetchOK        = "Address book downloading"
)

// -----------------------------------------------------------------------------
// Structured Logging Keys (slog)
// -----------------------------------------------------------------------------

const (
	LogKeyComponent = "component"
	LogKeyError     = "error"
	LogKeyURL       = "url"
	LogKeyStatus    = "status_code"
	LogKeyFile      = "file"
	LogKeyLang      = "lang"
	LogKeyKey       = "key"
	LogKeyPort      = "port"
	LogKeyMode      = "mode"
	LogKeyInterval  = "interval"
	LogKeyUser      = "user"
	LogKeyTotal     = "total_cards"
	LogKeyFound     = "birthdays_found"
	LogKeyToday     = "birthdays_today"
	LogKeySizeBytes = "size_bytes"
	LogKeyETag      = "etag"
	LogKeyRoute     = "route"
	LogKeyValue     = "value"
	LogKeyStats     = "stats"
	LogKeyCount     = "count"
	LogKeyName      = "name"
	LogKeyDOB       = "date_of_birth"
	LogKeyDuration  = "duration_ms"
	LogKeyYear      = "year"
	LogKeyDays      = "days"
	LogKeyFrom      = "from_year"
	LogKeyTo        = "to_year"
	LogKeyAnchor    = "anchor"
	LogKeyTable     = "table_range"

	// Startup Info Keys
	LogKeyBuild   = "build"
	LogKeyApp     = "app"
	LogKeyVersion = "version"
	LogKeyGoVer   = "go_version"
	LogKeyEnv     = "env"
	LogKeyOS      = "os"
	LogKeyArch    = "arch"
	LogKeyPID     = "pid"
)

// -----------------------------------------------------------------------------
// Log Components
// -----------------------------------------------------------------------------

const (
	CompEngine   = "engine"
	CompServer   = "server"
	CompFetcher  = "fetcher"
	CompWorker   = "worker"
	CompMain     = "main"
	CompI18n     = "i18n"
	CompCalendar = "calendar"
	CompConfig   = "config"
)
