package common

// AuthorizationHeaderName carries the bearer access token on API requests.
const AuthorizationHeaderName = "Authorization"

// BearerPrefix precedes the access token in the Authorization header.
const BearerPrefix = "Bearer "

// DateLayout is the calendar-day format used in URLs and responses.
const DateLayout = "2006-01-02"
