package main

import (
	"context"
	"fmt"

	"github.com/cdmi123/progress-report/internal/model"
	"github.com/cdmi123/progress-report/internal/service"
)

func (cli *commandLine) createStaff(name, email, contact, pwd string, faculty bool) error {
	role := model.RoleGlobal
	if faculty {
		role = model.RoleFaculty
	}
	staff, err := cli.staff.Bootstrap(context.Background(), service.StaffInput{
		Name:     name,
		Email:    email,
		Contact:  contact,
		Password: pwd,
		Role:     role,
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "created staff #%d <%s>\n", staff.ID, staff.Email)
	return nil
}
