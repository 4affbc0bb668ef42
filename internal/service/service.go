// Package service contains the business logic.
//
// It sits between the handler layer and the provider clients in lib. The
// handler hands over a decoded submission; the service runs the subscribe
// pipeline and decides where the browser goes next.
package service
