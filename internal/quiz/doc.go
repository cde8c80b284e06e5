// Package quiz builds multiple-choice questions from the process taxonomy
// and scores answers against them.
package quiz
