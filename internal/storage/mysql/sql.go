package mysql

const createApprovedSQL = `
CREATE TABLE IF NOT EXISTS approved_reviews (
  review_id   VARCHAR(64) NOT NULL,
  approved_at TIMESTAMP   NOT NULL DEFAULT CURRENT_TIMESTAMP,
  PRIMARY KEY (review_id)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4
`

const selectApprovedSQL = `SELECT review_id FROM approved_reviews ORDER BY review_id`

// INSERT IGNORE keeps Add idempotent and preserves the first approved_at.
const insertApprovedSQL = `INSERT IGNORE INTO approved_reviews (review_id) VALUES (?)`

const deleteApprovedSQL = `DELETE FROM approved_reviews WHERE review_id = ?`
