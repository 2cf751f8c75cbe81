package main

// General API documentation for swaggo. The registered document lives in
// internal/httpapi/docs.
//
// @title           modelhost API
// @version         1.0
// @description     HTTP API for supervising a single local model worker process.
//
// @license.name   MIT
// @license.url    https://opensource.org/licenses/MIT
//
// @BasePath  /
//
// @schemes http
