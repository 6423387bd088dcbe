package booking

import "errors"

// ErrStepIncomplete 第一步存在未填写的必填项，不区分具体字段
var ErrStepIncomplete = errors.New("please fill in all required fields")

// ValidateDetails 检查第一步必填项是否非空，不做格式校验
func ValidateDetails(d *Draft) error {
	if d == nil {
		return ErrStepIncomplete
	}
	required := []string{
		d.FullName,
		d.Email,
		d.Phone,
		d.BirthDate,
		d.Gender,
		d.BloodGroup,
		d.FitnessLevel,
		d.TShirtSize,
		d.CategoryID,
	}
	for _, v := range required {
		if v == "" {
			return ErrStepIncomplete
		}
	}
	return nil
}
