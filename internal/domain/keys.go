package domain

// KeyPrefix namespaces every Redis key written by the service.
const KeyPrefix = "prodex:"
