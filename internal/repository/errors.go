package repository

import "errors"

var (
	ErrNotFound         = errors.New("记录不存在")
	ErrEmployeeNotFound = errors.New("员工不存在")
	ErrRoleNotFound     = errors.New("岗位不存在")
	ErrAreaNotFound     = errors.New("区域不存在")
)
