// Package remote implements the remote asset-management API client.
//
// Requests carry an "Authorization: Token <token>" header attached by an
// oauth2 static token source. Asset creation is throttled with a token
// bucket so a large catalog does not trip the API's rate limits.
package remote
