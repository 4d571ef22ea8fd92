// Package tasks holds kennel's background jobs, registered on pkg/job:
//
//   - send_reservation_notice emails the customer and the admin after a
//     reservation is created.
//   - sweep_orphan_blobs runs hourly and deletes stored images that no
//     dog_images row references, such as uploads left behind by a client
//     that disconnected mid-request.
package tasks
