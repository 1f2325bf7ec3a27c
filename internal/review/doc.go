// Package review implements the card review flow over Telegram: picking the
// next due card, showing the answer, collecting a rating and applying the
// scheduling step, plus deck and card management commands.
package review
