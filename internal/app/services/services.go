package services

// Services defined in this package:
// - AuthService: login and refresh token rotation
// - PackService: pack CRUD, lifecycle transitions and the offering catalog
// - OfferingService: staff management of a pack's offerings
// - SelectionService: student submissions and staff review decisions
